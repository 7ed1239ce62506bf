// Package render turns packed masonry layouts into images and documents.
//
// # Overview
//
//   - Format conversion (SVG to PDF) in this package
//   - Output sinks: SVG, PNG, PDF, JSON and the DOT cell map (in [sink])
//   - Visual styles (in [styles])
//
// # Format Conversion
//
// [ToPDF] converts an SVG document to PDF using the external rsvg-convert
// tool (from librsvg):
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//
// PNG output does not need rsvg-convert; [sink.RenderPNG] rasterizes the
// layout directly.
//
// [sink]: github.com/matzehuels/masonry/pkg/render/sink
// [styles]: github.com/matzehuels/masonry/pkg/render/styles
// [sink.RenderPNG]: github.com/matzehuels/masonry/pkg/render/sink.RenderPNG
package render
