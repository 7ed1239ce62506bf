// Package io reads and writes masonry item files.
//
// # Overview
//
// An item file lists the rectangles to pack, each with an identifier and a
// preferred pixel size. The same document shape is accepted in three
// encodings, chosen by file extension:
//
//   - .json: encoding/json
//   - .yaml, .yml: gopkg.in/yaml.v3
//   - .toml: github.com/BurntSushi/toml
//
// # Document Shape
//
// JSON:
//
//	{
//	  "items": [
//	    {"id": "hero", "width": 320, "height": 180, "label": "Hero"},
//	    {"id": "side", "width": 160, "height": 360, "color": "#3d405b"}
//	  ]
//	}
//
// TOML:
//
//	[[items]]
//	id = "hero"
//	width = 320.0
//	height = 180.0
//
// # Item Fields
//
// Required:
//   - width, height: preferred size in pixels (finite, not negative)
//
// Optional:
//   - id: unique identifier; items without one are named "item-<n>" by
//     their position
//   - label: display text (defaults to the id)
//   - color: fill color for renderers
//   - url: link target for SVG output
//   - meta: freeform object carried through untouched
//
// # Import and Export
//
// Use [ImportItems] to read a file, picking the decoder from its extension,
// or [ReadItems] to decode from any io.Reader in an explicit [Format]:
//
//	items, err := io.ImportItems("board.yaml")
//
// [ExportItems] and [WriteItems] are the inverse. Item order is preserved
// both ways; the packer's placement depends on it.
package io
