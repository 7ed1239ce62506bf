// Package styles defines visual styles for masonry rendering.
//
// # Overview
//
// A style decides how each placed block is drawn in SVG output:
//
//   - [Style]: the interface every style implements
//   - [Simple]: filled rounded blocks with a dark outline
//   - [Outline]: white blocks with a colored border and colored text
//
// Look styles up by name with [Parse]; [Names] lists the registered names.
//
// # Colors
//
// A block uses its item's color when one is set. Otherwise [Palette] assigns
// one by item index, so the same board renders identically every time.
//
// # Text
//
// Labels are sized to fit the block with [FontSize] and shortened with
// [TruncateLabel] when they would overflow.
package styles
