package grid

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/masonry/pkg/errors"
)

const (
	// DefaultMaxCellHeight caps how many rows a single item may span.
	DefaultMaxCellHeight = 10

	// minRowBound is the smallest logical grid height, in rows.
	minRowBound = 2 * DefaultMaxCellHeight

	// MaxCells caps the cell grid of one pass, columns times searched rows.
	// At one int per cell the scratch grid stays under 32 MiB.
	MaxCells = 1 << 22
)

// Padding is the space between the container edge and the grid.
type Padding struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Uniform returns a Padding with the same value on every side.
func Uniform(v float64) Padding {
	return Padding{Left: v, Top: v, Right: v, Bottom: v}
}

// Params are the caller-supplied layout parameters of a pass.
type Params struct {
	// Columns is the number of equal-width columns. Values below 1 are
	// clamped to 1.
	Columns int

	// Aspect is the desired height/width ratio of one cell.
	Aspect float64

	// Spacing is the gap between adjacent cells, horizontally and vertically.
	Spacing float64

	// Padding surrounds the whole grid.
	Padding Padding

	// ContainerWidth is the available width before padding.
	ContainerWidth float64

	// MaxCellHeight caps an item's vertical span. Zero means
	// DefaultMaxCellHeight.
	MaxCellHeight int

	// RowBound overrides the logical grid height. Zero means
	// max(20, n*Columns). Callers raise it to retry after unplaced items.
	// Only the rows the items can reach are allocated, see [MaxCells].
	RowBound int
}

// normalized returns p with Columns clamped and defaults applied.
func (p Params) normalized() Params {
	if p.Columns < 1 {
		p.Columns = 1
	}
	if p.MaxCellHeight < 1 {
		p.MaxCellHeight = DefaultMaxCellHeight
	}
	return p
}

// ColumnWidth returns the pixel width of one column.
// The result may be zero or negative for degenerate parameters.
func (p Params) ColumnWidth() float64 {
	p = p.normalized()
	working := p.ContainerWidth - p.Padding.Left - p.Padding.Right
	return (working - p.Spacing*float64(p.Columns-1)) / float64(p.Columns)
}

// CellHeight returns the pixel height of one cell.
func (p Params) CellHeight() float64 {
	return p.ColumnWidth() * p.Aspect
}

// rows returns the logical grid height for n items.
func (p Params) rows(n int) int {
	if p.RowBound > 0 {
		return p.RowBound
	}
	if n > 0 && p.Columns > math.MaxInt/n {
		return math.MaxInt
	}
	return max(minRowBound, n*p.Columns)
}

// Validate reports a configuration error for parameters that cannot produce
// a layout: non-finite values, negative spacing or padding, a non-positive
// aspect, more columns than [MaxCells], or a non-positive computed column
// width.
func (p Params) Validate() error {
	p = p.normalized()
	if p.Columns > MaxCells {
		return errors.New(errors.ErrCodeConfiguration, "%d columns exceed the %d cell limit", p.Columns, MaxCells)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"spacing", p.Spacing},
		{"padding.left", p.Padding.Left},
		{"padding.top", p.Padding.Top},
		{"padding.right", p.Padding.Right},
		{"padding.bottom", p.Padding.Bottom},
	}
	for _, f := range fields {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid %s", f.name)
		}
	}
	if err := errors.ValidateFinite("container width", p.ContainerWidth); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid container width")
	}
	if math.IsNaN(p.Aspect) || math.IsInf(p.Aspect, 0) || p.Aspect <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "aspect must be a positive number (got %g)", p.Aspect)
	}
	if cw := p.ColumnWidth(); cw <= 0 {
		return errors.New(errors.ErrCodeConfiguration,
			"column width %g is not positive: container width %g leaves no room for %d columns with spacing %g and padding %g+%g",
			cw, p.ContainerWidth, p.Columns, p.Spacing, p.Padding.Left, p.Padding.Right)
	}
	return nil
}

// Rect is an assigned pixel rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Left, r.Top, r.Width, r.Height)
}

// Cell addresses one grid cell.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Span is an item's size in grid cells.
type Span struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Placement is the outcome for one placed item.
type Placement struct {
	Index  int  `json:"index"`
	Anchor Cell `json:"anchor"`
	Span   Span `json:"span"`
	Rect   Rect `json:"rect"`
}

// Contains reports whether the placement's block covers c.
func (p Placement) Contains(c Cell) bool {
	return c.X >= p.Anchor.X && c.X < p.Anchor.X+p.Span.W &&
		c.Y >= p.Anchor.Y && c.Y < p.Anchor.Y+p.Span.H
}

// Result is the output of one packing pass.
type Result struct {
	// Placements holds one entry per placed item, ordered by item index.
	Placements []Placement

	// Unplaced lists, in input order, the indices of items that found no
	// free block within the row bound.
	Unplaced []int

	// Columns is the clamped column count used for the pass.
	Columns int

	// ColumnWidth and CellHeight are the pixel size of one cell.
	ColumnWidth float64
	CellHeight  float64

	// Rows is the number of grid rows containing at least one item.
	Rows int

	// RowBound is the number of grid rows that were searched: the logical
	// bound, or the total span height of all items when that is smaller.
	// Whenever an item is unplaced it equals the logical bound.
	RowBound int

	// ContentHeight is the container height needed for the occupied rows,
	// padding included.
	ContentHeight float64

	// Diagnostic is non-nil when the pass detected an internal consistency
	// violation. The placements are still returned.
	Diagnostic error
}

// Placement returns the placement of item i.
func (r *Result) Placement(i int) (Placement, bool) {
	k, ok := slices.BinarySearchFunc(r.Placements, i, func(p Placement, i int) int {
		return cmp.Compare(p.Index, i)
	})
	if !ok {
		return Placement{}, false
	}
	return r.Placements[k], true
}

// Rect returns the rectangle assigned to item i.
func (r *Result) Rect(i int) (Rect, bool) {
	p, ok := r.Placement(i)
	return p.Rect, ok
}

// Rects returns the index to rectangle mapping of all placed items.
func (r *Result) Rects() map[int]Rect {
	out := make(map[int]Rect, len(r.Placements))
	for _, p := range r.Placements {
		out[p.Index] = p.Rect
	}
	return out
}

// UnplacedError returns a PLACEMENT_EXHAUSTED error naming the unplaced
// items, or nil when everything fit.
func (r *Result) UnplacedError() error {
	if len(r.Unplaced) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodePlacementExhausted,
		"%d item(s) did not fit within %d rows: %v", len(r.Unplaced), r.RowBound, r.Unplaced)
}

// SizeFunc reports the preferred width and height of item i.
type SizeFunc func(i int) (width, height float64)

// Sizer queries the preferred size of items of type T.
type Sizer[T any] interface {
	PreferredWidth(item T) float64
	PreferredHeight(item T) float64
}

// SizerFuncs adapts two plain functions to a Sizer.
type SizerFuncs[T any] struct {
	Width  func(T) float64
	Height func(T) float64
}

func (s SizerFuncs[T]) PreferredWidth(item T) float64  { return s.Width(item) }
func (s SizerFuncs[T]) PreferredHeight(item T) float64 { return s.Height(item) }

// PackItems packs items in order using s to query their preferred sizes.
func PackItems[T any](p *Packer, items []T, s Sizer[T], params Params) (*Result, error) {
	return p.Pack(len(items), func(i int) (float64, float64) {
		return s.PreferredWidth(items[i]), s.PreferredHeight(items[i])
	}, params)
}
