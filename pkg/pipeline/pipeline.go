// Package pipeline provides the pack → render pipeline for Masonry.
//
// This package implements the complete pipeline used by the CLI and the
// HTTP API. By centralizing this logic, both entry points apply the same
// defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Pack: place the items on the grid (pkg/grid) and build a layout
//  2. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Columns: 4,
//	    Width:   1200,
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, items, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Pack(ctx, items, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// # Concurrency
//
// A Runner may be shared by any number of goroutines. Each Pack call
// borrows its own grid.Packer from a pool, so scratch buffers are reused
// across calls without being shared between concurrent ones.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultColumns is the number of grid columns.
	DefaultColumns = 5

	// DefaultAspect is the cell height to column width ratio.
	DefaultAspect = 16.0 / 9.0

	// DefaultSpacing is the gap between cells in pixels.
	DefaultSpacing = 8.0

	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 800.0

	// DefaultMaxCellHeight is the tallest vertical span an item may take.
	DefaultMaxCellHeight = grid.DefaultMaxCellHeight

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.DefaultName

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatCellMap = "cellmap"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatCellMap: true,
}

// FormatNames lists the output formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Columns       int          `json:"columns,omitempty"`
	Aspect        float64      `json:"aspect,omitempty"`
	Spacing       *float64     `json:"spacing,omitempty"` // nil selects DefaultSpacing
	Padding       grid.Padding `json:"padding"`
	Width         float64      `json:"width,omitempty"`
	MaxCellHeight int          `json:"max_cell_height,omitempty"`
	RowBound      int          `json:"row_bound,omitempty"`
	Strict        bool         `json:"strict,omitempty"` // fail when an item does not fit
	Refresh       bool         `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	ShowGrid   bool     `json:"show_grid,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ItemsHash is the content hash of the input items.
	ItemsHash string

	// Layout is the packed layout.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	Placed     int
	Unplaced   int
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if style == "" {
		return errors.New(errors.ErrCodeInvalidInput, "style is required")
	}
	_, err := styles.Parse(style)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for packing.
func (o *Options) SetLayoutDefaults() {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Aspect == 0 {
		o.Aspect = DefaultAspect
	}
	if o.Spacing == nil {
		s := DefaultSpacing
		o.Spacing = &s
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.MaxCellHeight == 0 {
		o.MaxCellHeight = DefaultMaxCellHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks the grid parameters.
// Failures carry errors.ErrCodeConfiguration.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.RowBound < 0 {
		return errors.New(errors.ErrCodeConfiguration, "row_bound cannot be negative (got %d)", o.RowBound)
	}
	return o.Params().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative (got %g)", o.Scale)
	}
	return ValidateStyle(o.Style)
}

// SpacingValue returns the configured spacing, or DefaultSpacing when unset.
func (o *Options) SpacingValue() float64 {
	if o.Spacing == nil {
		return DefaultSpacing
	}
	return *o.Spacing
}

// Params returns the packer parameters described by the options.
func (o *Options) Params() grid.Params {
	return grid.Params{
		Columns:        o.Columns,
		Aspect:         o.Aspect,
		Spacing:        o.SpacingValue(),
		Padding:        o.Padding,
		ContainerWidth: o.Width,
		MaxCellHeight:  o.MaxCellHeight,
		RowBound:       o.RowBound,
	}
}

// LayoutKeyOpts returns cache key options for packing.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	p := o.Padding
	return cache.LayoutKeyOpts{
		Columns:        o.Columns,
		Aspect:         o.Aspect,
		Spacing:        o.SpacingValue(),
		Padding:        [4]float64{p.Left, p.Top, p.Right, p.Bottom},
		ContainerWidth: o.Width,
		MaxCellHeight:  o.MaxCellHeight,
		RowBound:       o.RowBound,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		ShowLabels: !o.HideLabels,
		ShowGrid:   o.ShowGrid,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// Float returns a pointer to v, for setting Options.Spacing.
func Float(v float64) *float64 { return &v }
