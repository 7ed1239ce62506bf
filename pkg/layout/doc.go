// Package layout provides serialization types for masonry items and layouts.
//
// This package defines the canonical wire format for Masonry's data, used for
// JSON files, API responses, caching and storage.
//
// # Architecture
//
// The package sits at the serialization boundary between the packer and
// external formats:
//
//   - [Item], [Layout], [Block]: serialization types (this package)
//   - pkg/grid.Result: the packer's in-memory output
//
// Use [FromResult] to convert a packing pass into a [Layout].
//
// # Items
//
// An item is an identifier plus a preferred pixel size:
//
//	{"id": "hero", "width": 320, "height": 180, "label": "Hero", "color": "#e07a5f"}
//
// [Sizer] adapts items to the packer's size query.
//
// # Layout Serialization
//
// A layout records the grid it was packed into (columns, cell size,
// spacing, padding) and one [Block] per placed item:
//
//	data, _ := layout.Marshal(l)          // Layout → []byte
//	l, _ := layout.Unmarshal(data)        // []byte → Layout (validated)
//	layout.WriteFile(l, "board.layout.json")
//	l, _ = layout.ReadFile("board.layout.json")
//
// Items that did not fit are listed by ID in [Layout.Unplaced].
package layout
