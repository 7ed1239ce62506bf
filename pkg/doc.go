// Package pkg provides the core libraries for Masonry grid packing.
//
// # Overview
//
// Masonry places a sequence of items, each with a preferred pixel size, onto
// a grid of equal-width columns. Every item is snapped to a whole number of
// cells and dropped into the first free slot in row-major order, so the same
// input always produces the same layout. The pkg directory is organized into
// four areas:
//
//  1. [grid] - The packer (cell grid, span computation, first-fit placement)
//  2. [layout] - Serialization types for items and packed layouts
//  3. [pipeline] - Orchestration (validate → pack → render) with caching
//  4. [render] - Output formats and visual styles
//
// # Architecture
//
// The typical data flow:
//
//	Item file (JSON, YAML, TOML)
//	         ↓
//	    [io] package (decode + normalize items)
//	         ↓
//	    [grid] package (first-fit packing)
//	         ↓
//	    [layout] package (Layout with pixel rectangles)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON, DOT, cell map)
//
// # Quick Start
//
// Pack items and render an SVG:
//
//	import (
//	    "github.com/matzehuels/masonry/pkg/grid"
//	    "github.com/matzehuels/masonry/pkg/layout"
//	    "github.com/matzehuels/masonry/pkg/render/sink"
//	)
//
//	items := []layout.Item{
//	    {ID: "hero", Width: 320, Height: 180},
//	    {ID: "side", Width: 160, Height: 360},
//	}
//	params := grid.Params{Columns: 4, Aspect: 1, Spacing: 8, ContainerWidth: 664}
//
//	res, _ := grid.PackItems(grid.NewPacker(), items, layout.Sizer{}, params)
//	l := layout.FromResult(items, params, res)
//	svg := sink.RenderSVG(l)
//
// Most callers go through [pipeline] instead, which adds validation,
// defaults and result caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, items, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// [grid] - The packing algorithm. A [grid.Packer] owns reusable scratch
// buffers; each Pack call is independent and deterministic. Items that do
// not fit within the row bound are reported in Result.Unplaced rather than
// failing the pass.
//
// [layout] - Item, Layout and Block types plus JSON helpers.
// [layout.FromResult] converts packer output into a Layout.
//
// [io] - Item file import and export, choosing the decoder by extension.
//
// [pipeline] - Options, validation and the Runner used by the CLI and the
// HTTP API so both entry points behave the same.
//
// [render] - SVG to PDF/PNG conversion via rsvg-convert, with
// [render/sink] for the output formats and [render/styles] for colors.
//
// [cache] - Content-addressed caching with file, Redis and null backends.
//
// [store] - Saved layouts for the HTTP API (memory, file and MongoDB).
//
// [errors] - Coded errors shared across packages and mapped to HTTP status.
//
// [observability] - Hooks for packing, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/grid/...      # Specific package
//	go test -run Example        # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render/styles
// [cache]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/observability
package pkg
