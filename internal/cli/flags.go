package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// layoutFlags are the packing flags shared by pack and preview.
// Only flags the user sets override the config file.
type layoutFlags struct {
	columns       int
	aspect        float64
	spacing       float64
	padding       float64
	width         float64
	maxCellHeight int
	rowBound      int
	strict        bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.columns, "columns", "c", pipeline.DefaultColumns, "number of grid columns")
	fs.Float64VarP(&f.aspect, "aspect", "a", pipeline.DefaultAspect, "cell height as a fraction of column width")
	fs.Float64Var(&f.spacing, "spacing", pipeline.DefaultSpacing, "gutter between cells in pixels")
	fs.Float64Var(&f.padding, "padding", 0, "padding on every side of the container in pixels")
	fs.Float64VarP(&f.width, "width", "w", pipeline.DefaultWidth, "container width in pixels")
	fs.IntVar(&f.maxCellHeight, "max-cell-height", pipeline.DefaultMaxCellHeight, "largest row span an item may take")
	fs.IntVar(&f.rowBound, "row-bound", 0, "number of grid rows (0: derived from the item count)")
	fs.BoolVar(&f.strict, "strict", false, "fail when an item does not fit")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("columns") {
		opts.Columns = f.columns
	}
	if fs.Changed("aspect") {
		opts.Aspect = f.aspect
	}
	if fs.Changed("spacing") {
		opts.Spacing = pipeline.Float(f.spacing)
	}
	if fs.Changed("padding") {
		opts.Padding = grid.Uniform(f.padding)
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("max-cell-height") {
		opts.MaxCellHeight = f.maxCellHeight
	}
	if fs.Changed("row-bound") {
		opts.RowBound = f.rowBound
	}
	if fs.Changed("strict") {
		opts.Strict = f.strict
	}
}

// renderFlags are the output flags shared by pack and render.
type renderFlags struct {
	formats  string
	style    string
	grid     bool
	noLabels bool
	scale    float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, cellmap (comma-separated)")
	fs.StringVar(&f.style, "style", pipeline.DefaultStyle, "visual style: simple (default), outline")
	fs.BoolVar(&f.grid, "grid", false, "draw the cell grid behind the blocks")
	fs.BoolVar(&f.noLabels, "no-labels", false, "omit block labels")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if formats := parseFormats(f.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if fs.Changed("style") {
		opts.Style = f.style
	}
	if fs.Changed("grid") {
		opts.ShowGrid = f.grid
	}
	if fs.Changed("no-labels") {
		opts.HideLabels = f.noLabels
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
}
