package sink

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

const freeCellColor = "#f4f4f4"

// ToDOT converts a layout into a Graphviz graph holding one HTML-like
// table: a header row of column numbers, then one row per grid row led by
// its row number. Each block becomes a single cell at its anchor spanning
// COLSPAN x ROWSPAN slots; free slots are grey.
func ToDOT(l layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph masonry {\n")
	buf.WriteString("  graph [bgcolor=\"transparent\", margin=0];\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  grid [label=<\n")
	buf.WriteString("<TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"2\" CELLPADDING=\"6\">\n")

	buf.WriteString("<TR><TD BORDER=\"0\"></TD>")
	for col := 0; col < l.Columns; col++ {
		fmt.Fprintf(&buf, "<TD BORDER=\"0\"><FONT COLOR=\"#888888\">%d</FONT></TD>", col)
	}
	buf.WriteString("</TR>\n")

	// anchorAt[y][x] is the block anchored at (x, y), or -1.
	occ := l.Occupancy()
	anchorAt := make([][]int, l.Rows)
	for y := range anchorAt {
		anchorAt[y] = make([]int, l.Columns)
		for x := range anchorAt[y] {
			anchorAt[y][x] = -1
		}
	}
	for k, b := range l.Blocks {
		if b.Row < l.Rows && b.Col < l.Columns {
			anchorAt[b.Row][b.Col] = k
		}
	}

	for y := 0; y < l.Rows; y++ {
		fmt.Fprintf(&buf, "<TR><TD BORDER=\"0\"><FONT COLOR=\"#888888\">%d</FONT></TD>", y)
		for x := 0; x < l.Columns; x++ {
			switch k := anchorAt[y][x]; {
			case k >= 0:
				b := l.Blocks[k]
				fill := blockColor(b)
				fmt.Fprintf(&buf, "<TD COLSPAN=\"%d\" ROWSPAN=\"%d\" BGCOLOR=\"%s\"><FONT COLOR=\"%s\">%s</FONT></TD>",
					b.ColSpan, b.RowSpan, fill, styles.TextColor(fill), html.EscapeString(b.Label))
			case occ[y][x] < 0:
				fmt.Fprintf(&buf, "<TD BGCOLOR=\"%s\"></TD>", freeCellColor)
			}
			// covered, non-anchor slots are filled by the spanning cell
		}
		buf.WriteString("</TR>\n")
	}

	buf.WriteString("</TABLE>>];\n")
	buf.WriteString("}\n")
	return buf.String()
}

// RenderCellMap renders the layout's cell map to SVG using Graphviz.
func RenderCellMap(ctx context.Context, l layout.Layout) ([]byte, error) {
	return RenderDOT(ctx, ToDOT(l), graphviz.SVG)
}

// RenderDOT renders a DOT graph in the given Graphviz format.
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
