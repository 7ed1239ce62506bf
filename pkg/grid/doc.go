// Package grid packs rectangular items into a fixed-width, grid-quantized
// container, producing a masonry arrangement.
//
// # Overview
//
// The container is split into Columns equal-width columns. One grid cell is
// one column wide and ColumnWidth*Aspect tall. Every item asks for a span of
// whole cells derived from its preferred size, and the [Packer] assigns it
// the first free block of that span in a fixed scan order.
//
// A pass has three phases:
//
//  1. Sizing: preferred sizes are rounded to cell spans, clamped to
//     [1, Columns] horizontally and [1, MaxCellHeight] vertically.
//  2. Placement: items are taken in input order; for each, anchors are
//     scanned row-major (rows outer, columns inner) and the first anchor
//     whose block is fully free is claimed. Items that fit nowhere within
//     the row bound are reported as unplaced.
//  3. Emission: a single forward scan converts each item's anchor cell into
//     a pixel rectangle, adding Spacing between cells and Padding around
//     the grid.
//
// The scan order is the tie-break policy: earliest row, then earliest
// column, first item wins. Later items route around earlier ones and never
// evict them. Packing is not globally optimal.
//
// # Grid Size
//
// The logical row bound is max(20, n*Columns) unless Params.RowBound
// overrides it. An item is never anchored below the stacked height of the
// items before it, so only min(bound, total span height) rows are
// allocated and searched; placements are the same as for the full bound.
// A pass whose grid would still exceed [MaxCells] cells fails with a
// configuration error instead of allocating it.
//
// # Usage
//
//	p := grid.NewPacker()
//	res, err := p.Pack(len(cards), func(i int) (float64, float64) {
//	    return cards[i].W, cards[i].H
//	}, grid.Params{Columns: 3, Aspect: 1, ContainerWidth: 300})
//	if err != nil {
//	    // configuration error: nothing was placed
//	}
//	for _, pl := range res.Placements {
//	    fmt.Println(pl.Index, pl.Rect)
//	}
//
// Items that could not be placed are listed in [Result.Unplaced]; that is an
// expected outcome, not an error. A non-nil [Result.Diagnostic] signals an
// internal consistency failure and should be logged loudly.
//
// # Concurrency
//
// A [Packer] reuses its scratch buffers between calls and is not safe for
// concurrent use. Serialize calls to one Packer or use one per goroutine.
package grid
