package sink

import (
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

func blockColor(b layout.Block) string {
	if _, _, _, err := styles.ParseHex(b.Color); err == nil {
		return b.Color
	}
	return styles.BlockColor("", b.Index)
}

func buildBlocks(l layout.Layout) []styles.Block {
	blocks := make([]styles.Block, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		blocks = append(blocks, styles.Block{
			ID:    b.ID,
			Label: b.Label,
			X:     b.X,
			Y:     b.Y,
			W:     b.Width,
			H:     b.Height,
			CX:    b.CenterX(),
			CY:    b.CenterY(),
			URL:   b.URL,
			Color: blockColor(b),
		})
	}
	return blocks
}

// gridCells calls fn with the pixel rectangle of every grid slot.
func gridCells(l layout.Layout, fn func(x, y, w, h float64)) {
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			x := l.Padding.Left + float64(col)*(l.ColumnWidth+l.Spacing)
			y := l.Padding.Top + float64(row)*(l.CellHeight+l.Spacing)
			fn(x, y, l.ColumnWidth, l.CellHeight)
		}
	}
}
