// Package sink writes packed layouts in output formats.
//
// # Formats
//
//   - [RenderSVG]: vector output with pluggable [styles.Style]
//   - [RenderPNG]: raster output drawn with github.com/fogleman/gg
//   - [RenderPDF]: SVG converted by rsvg-convert
//   - [RenderJSON]: the layout wire format
//   - [ToDOT] and [RenderCellMap]: the occupancy grid as a Graphviz table,
//     one cell per grid slot, spanning items merged with COLSPAN/ROWSPAN
//
// Every sink reads the same [layout.Layout], so a layout loaded from a file
// or the cache renders identically to one packed in-process.
//
// # Colors
//
// A block is filled with its item's color when that is a hex color
// ("#rgb" or "#rrggbb"); otherwise the style palette picks one by item
// index.
//
// [styles.Style]: github.com/matzehuels/masonry/pkg/render/styles.Style
// [layout.Layout]: github.com/matzehuels/masonry/pkg/layout.Layout
package sink
