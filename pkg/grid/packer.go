package grid

import (
	"cmp"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/errors"
)

// free marks an unoccupied cell.
const free = -1

// Option configures a Packer.
type Option func(*Packer)

// WithLogger routes unplaced-item warnings and consistency failures to l.
func WithLogger(l *log.Logger) Option {
	return func(p *Packer) {
		if l != nil {
			p.logger = l
		}
	}
}

// Packer performs first-fit masonry packing. Its scratch buffers are kept
// between calls, so a Packer must not be used by two goroutines at once.
type Packer struct {
	cells   []int // rows*columns, row-major; free or an item index
	spans   []Span
	anchors []Cell
	emitted []bool
	logger  *log.Logger
}

// NewPacker creates a Packer.
func NewPacker(opts ...Option) *Packer {
	p := &Packer{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pack lays out n items whose preferred sizes are reported by size.
//
// A configuration error aborts the pass before any item is placed and is
// the only error Pack returns. That covers [Params.Validate] failures and
// passes whose searched grid would exceed [MaxCells]. Items that do not fit
// are listed in [Result.Unplaced]; consistency failures are reported in
// [Result.Diagnostic].
func (p *Packer) Pack(n int, size SizeFunc, params Params) (*Result, error) {
	params = params.normalized()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}

	cols := params.Columns
	colW := params.ColumnWidth()
	cellH := colW * params.Aspect
	p.resetItems(n)

	// First-fit never anchors an item below the stacked height of the items
	// before it, so rows past the total span height are never searched.
	rows, stacked := params.rows(n), 0
	for i := range n {
		w, h := size(i)
		sp := Span{
			W: spanOf(w, colW, cols),
			H: spanOf(h, cellH, params.MaxCellHeight),
		}
		p.spans[i] = sp
		if sp.H > rows-stacked {
			stacked = rows
		} else {
			stacked += sp.H
		}
	}
	rows = stacked
	if rows > MaxCells/cols {
		return nil, errors.New(errors.ErrCodeConfiguration,
			"a %d column grid needs %d rows, more than the %d cell limit", cols, rows, MaxCells)
	}
	p.resetCells(rows * cols)

	res := &Result{
		Columns:     cols,
		ColumnWidth: colW,
		CellHeight:  cellH,
		RowBound:    rows,
	}

	lastRow := -1
	for i := range n {
		anchor, ok := p.place(i, cols, rows)
		if !ok {
			res.Unplaced = append(res.Unplaced, i)
			p.logger.Warn("no free block for item",
				"index", i, "cells_wide", p.spans[i].W, "cells_high", p.spans[i].H, "rows", rows)
			continue
		}
		p.anchors[i] = anchor
		lastRow = max(lastRow, anchor.Y+p.spans[i].H-1)
	}
	res.Rows = lastRow + 1

	res.ContentHeight = params.Padding.Top + params.Padding.Bottom
	if res.Rows > 0 {
		res.ContentHeight += float64(res.Rows)*cellH + float64(res.Rows-1)*params.Spacing
	}

	p.emit(res, n, params)
	return res, nil
}

// emit scans the occupied rows in row-major order and records one
// placement per item at the first cell it covers. Placements end up sorted
// by item index. A pass that loses or duplicates an item, or whose emitted
// anchor differs from the one claimed during placement, gets a Diagnostic.
func (p *Packer) emit(res *Result, n int, params Params) {
	cols := res.Columns
	clear(p.emitted[:n])

	res.Placements = make([]Placement, 0, n-len(res.Unplaced))
	misplaced := 0
	for y := range res.Rows {
		for x := range cols {
			idx := p.cells[y*cols+x]
			if idx == free || p.emitted[idx] {
				continue
			}
			p.emitted[idx] = true
			anchor := Cell{X: x, Y: y}
			if anchor != p.anchors[idx] {
				misplaced++
			}
			res.Placements = append(res.Placements, Placement{
				Index:  idx,
				Anchor: anchor,
				Span:   p.spans[idx],
				Rect:   rectFor(anchor, p.spans[idx], params, res.ColumnWidth, res.CellHeight),
			})
		}
	}
	slices.SortFunc(res.Placements, func(a, b Placement) int { return cmp.Compare(a.Index, b.Index) })

	res.Diagnostic = nil
	if placed := len(res.Placements); placed+len(res.Unplaced) != n || misplaced > 0 {
		res.Diagnostic = errors.New(errors.ErrCodeInternalInconsistency,
			"placed %d + unplaced %d != %d items (%d anchor mismatches)", placed, len(res.Unplaced), n, misplaced)
		p.logger.Error("masonry pass is inconsistent", "err", res.Diagnostic)
	}
}

// resetItems sizes the per-item scratch for n items, reusing backing
// arrays when they are large enough.
func (p *Packer) resetItems(n int) {
	p.spans = grow(p.spans, n)
	p.anchors = grow(p.anchors, n)
	p.emitted = grow(p.emitted, n)
	for i := range n {
		p.anchors[i] = Cell{X: -1, Y: -1}
	}
}

// resetCells sizes the cell grid and marks every cell free.
func (p *Packer) resetCells(size int) {
	p.cells = grow(p.cells, size)
	for i := range p.cells {
		p.cells[i] = free
	}
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// place claims the first free block for item i in row-major order.
func (p *Packer) place(i, cols, rows int) (Cell, bool) {
	sp := p.spans[i]
	for y := 0; y+sp.H <= rows; y++ {
		for x := 0; x+sp.W <= cols; x++ {
			if !p.blockFree(x, y, sp, cols) {
				continue
			}
			for dy := range sp.H {
				for dx := range sp.W {
					p.cells[(y+dy)*cols+x+dx] = i
				}
			}
			return Cell{X: x, Y: y}, true
		}
	}
	return Cell{}, false
}

func (p *Packer) blockFree(x, y int, sp Span, cols int) bool {
	for dy := range sp.H {
		row := (y + dy) * cols
		for dx := range sp.W {
			if p.cells[row+x+dx] != free {
				return false
			}
		}
	}
	return true
}

// spanOf converts a preferred length into whole cells, rounding half to
// even and clamping to [1, limit]. Non-numeric preferences count as one cell.
func spanOf(preferred, unit float64, limit int) int {
	r := math.RoundToEven(preferred / unit)
	switch {
	case math.IsNaN(r) || r < 1:
		return 1
	case r > float64(limit):
		return limit
	default:
		return int(r)
	}
}

func rectFor(a Cell, sp Span, params Params, colW, cellH float64) Rect {
	return Rect{
		Left:   float64(a.X)*colW + float64(a.X)*params.Spacing + params.Padding.Left,
		Top:    float64(a.Y)*cellH + float64(a.Y)*params.Spacing + params.Padding.Top,
		Width:  float64(sp.W)*colW + float64(sp.W-1)*params.Spacing,
		Height: float64(sp.H)*cellH + float64(sp.H-1)*params.Spacing,
	}
}
