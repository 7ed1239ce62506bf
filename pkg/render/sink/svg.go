package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

const blockInteractionCSS = `
    .block { transition: stroke-width 0.2s ease; }
    .block:hover { stroke-width: 3; }
    .grid-cell { fill: none; stroke: #ccc; stroke-dasharray: 4 3; }
    a { cursor: pointer; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      styles.Style
	grid       bool
	labels     bool
	background string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithGrid() SVGOption                { return func(r *svgRenderer) { r.grid = true } }
func WithoutLabels() SVGOption           { return func(r *svgRenderer) { r.labels = false } }

// WithBackground fills the canvas with color before drawing blocks.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders the layout as a standalone SVG document sized to the
// container width and content height.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", blockInteractionCSS)
	r.style.RenderDefs(&buf)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.EscapeXML(r.background))
	}
	if r.grid {
		gridCells(l, func(x, y, w, h float64) {
			fmt.Fprintf(&buf, `  <rect class="grid-cell" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", x, y, w, h)
		})
	}

	blocks := buildBlocks(l)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
	}
	if r.labels {
		for _, b := range blocks {
			r.style.RenderText(&buf, b)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
