package layout

import (
	"fmt"

	"github.com/matzehuels/masonry/pkg/grid"
)

// =============================================================================
// Item - Packing Input
// =============================================================================

// Item is a rectangle to be packed, with its preferred pixel size.
type Item struct {
	ID     string         `json:"id" bson:"id" yaml:"id" toml:"id"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Width  float64        `json:"width" bson:"width" yaml:"width" toml:"width"`
	Height float64        `json:"height" bson:"height" yaml:"height" toml:"height"`
	Color  string         `json:"color,omitempty" bson:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	URL    string         `json:"url,omitempty" bson:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (it Item) DisplayLabel() string {
	if it.Label != "" {
		return it.Label
	}
	return it.ID
}

// Sizer reports an item's preferred size to the packer.
type Sizer struct{}

func (Sizer) PreferredWidth(it Item) float64  { return it.Width }
func (Sizer) PreferredHeight(it Item) float64 { return it.Height }

var _ grid.Sizer[Item] = Sizer{}

// =============================================================================
// Layout - Packing Output
// =============================================================================

// Layout is the serialization format for a packed masonry grid.
//
// Width and Height are the container size in pixels: Width is the container
// width the pass was run with, Height the content height of the occupied
// rows including padding. RowBound is the number of rows the pass searched,
// so packing the same items with Params() reproduces the layout.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`

	// Grid geometry
	Columns       int          `json:"columns" bson:"columns"`
	Rows          int          `json:"rows" bson:"rows"`
	RowBound      int          `json:"row_bound,omitempty" bson:"row_bound,omitempty"`
	MaxCellHeight int          `json:"max_cell_height,omitempty" bson:"max_cell_height,omitempty"`
	ColumnWidth   float64      `json:"column_width" bson:"column_width"`
	CellHeight    float64      `json:"cell_height" bson:"cell_height"`
	Aspect        float64      `json:"aspect" bson:"aspect"`
	Spacing       float64      `json:"spacing" bson:"spacing"`
	Padding       grid.Padding `json:"padding" bson:"padding"`

	Blocks     []Block  `json:"blocks" bson:"blocks"`
	Unplaced   []string `json:"unplaced,omitempty" bson:"unplaced,omitempty"`
	Diagnostic string   `json:"diagnostic,omitempty" bson:"diagnostic,omitempty"`
}

// Block is a placed item.
type Block struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Index int    `json:"index" bson:"index"`

	// Grid position and span, in cells
	Col     int `json:"col" bson:"col"`
	Row     int `json:"row" bson:"row"`
	ColSpan int `json:"col_span" bson:"col_span"`
	RowSpan int `json:"row_span" bson:"row_span"`

	// Pixel rectangle
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Color string `json:"color,omitempty" bson:"color,omitempty"`
	URL   string `json:"url,omitempty" bson:"url,omitempty"`
}

// CenterX returns the horizontal center of the block.
func (b Block) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the block.
func (b Block) CenterY() float64 { return b.Y + b.Height/2 }

// Params reconstructs the packing parameters the layout was built with.
func (l Layout) Params() grid.Params {
	return grid.Params{
		Columns:        l.Columns,
		Aspect:         l.Aspect,
		Spacing:        l.Spacing,
		Padding:        l.Padding,
		ContainerWidth: l.Width,
		RowBound:       l.RowBound,
		MaxCellHeight:  l.MaxCellHeight,
	}
}

// Occupancy rebuilds the cell map: one row per grid row, each cell holding
// the index into Blocks of its occupant, or -1 when free.
func (l Layout) Occupancy() [][]int {
	cells := make([][]int, l.Rows)
	for y := range cells {
		cells[y] = make([]int, l.Columns)
		for x := range cells[y] {
			cells[y][x] = -1
		}
	}
	for k, b := range l.Blocks {
		for y := b.Row; y < b.Row+b.RowSpan && y < l.Rows; y++ {
			for x := b.Col; x < b.Col+b.ColSpan && x < l.Columns; x++ {
				cells[y][x] = k
			}
		}
	}
	return cells
}

// validate checks that blocks lie inside the grid and do not overlap.
func (l Layout) validate() error {
	if l.Columns < 1 {
		return fmt.Errorf("layout must have at least one column")
	}
	seen := make(map[[2]int]string)
	for _, b := range l.Blocks {
		if b.ColSpan < 1 || b.RowSpan < 1 {
			return fmt.Errorf("block %q has empty span", b.ID)
		}
		if b.Col < 0 || b.Row < 0 || b.Col+b.ColSpan > l.Columns || b.Row+b.RowSpan > l.Rows {
			return fmt.Errorf("block %q lies outside the %dx%d grid", b.ID, l.Columns, l.Rows)
		}
		for y := b.Row; y < b.Row+b.RowSpan; y++ {
			for x := b.Col; x < b.Col+b.ColSpan; x++ {
				if other, ok := seen[[2]int{x, y}]; ok {
					return fmt.Errorf("blocks %q and %q overlap at cell (%d,%d)", other, b.ID, x, y)
				}
				seen[[2]int{x, y}] = b.ID
			}
		}
	}
	return nil
}

// FromResult converts a packing pass over items into a Layout.
func FromResult(items []Item, params grid.Params, res *grid.Result) Layout {
	l := Layout{
		Width:         params.ContainerWidth,
		Height:        res.ContentHeight,
		Columns:       res.Columns,
		Rows:          res.Rows,
		RowBound:      res.RowBound,
		MaxCellHeight: params.MaxCellHeight,
		ColumnWidth:   res.ColumnWidth,
		CellHeight:    res.CellHeight,
		Aspect:        params.Aspect,
		Spacing:       params.Spacing,
		Padding:       params.Padding,
		Blocks:        make([]Block, 0, len(res.Placements)),
	}
	for _, p := range res.Placements {
		it := items[p.Index]
		l.Blocks = append(l.Blocks, Block{
			ID:      it.ID,
			Label:   it.DisplayLabel(),
			Index:   p.Index,
			Col:     p.Anchor.X,
			Row:     p.Anchor.Y,
			ColSpan: p.Span.W,
			RowSpan: p.Span.H,
			X:       p.Rect.Left,
			Y:       p.Rect.Top,
			Width:   p.Rect.Width,
			Height:  p.Rect.Height,
			Color:   it.Color,
			URL:     it.URL,
		})
	}
	for _, i := range res.Unplaced {
		l.Unplaced = append(l.Unplaced, items[i].ID)
	}
	if res.Diagnostic != nil {
		l.Diagnostic = res.Diagnostic.Error()
	}
	return l
}
