package pipeline

import (
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/layout"
)

// PackLayout runs one packing pass over items with p and converts the
// result to a layout. Options must already carry their layout defaults.
//
// Items that do not fit are listed in the layout's Unplaced field; this is
// not an error unless opts.Strict is set. A configuration error returns
// a nil result.
func PackLayout(p *grid.Packer, items []layout.Item, opts Options) (layout.Layout, *grid.Result, error) {
	params := opts.Params()
	res, err := grid.PackItems(p, items, layout.Sizer{}, params)
	if err != nil {
		return layout.Layout{}, nil, err
	}

	l := layout.FromResult(items, params, res)
	l.Style = opts.Style

	if opts.Strict && len(l.Unplaced) > 0 {
		return l, res, unplacedError(l)
	}
	return l, res, nil
}

func unplacedError(l layout.Layout) error {
	return errors.New(errors.ErrCodePlacementExhausted, "%d item(s) did not fit: %v", len(l.Unplaced), l.Unplaced)
}
