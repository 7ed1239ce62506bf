package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// MaxPNGPixels caps the canvas of [RenderPNG], width times height after
// scaling. At four bytes per pixel that is 128 MiB.
const MaxPNGPixels = 1 << 25

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	grid       bool
	labels     bool
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

func WithPNGGrid() PNGOption      { return func(r *pngRenderer) { r.grid = true } }
func WithoutPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = false } }

// WithPNGBackground sets the canvas color (default white).
func WithPNGBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// RenderPNG rasterizes the layout. Labels use gg's built-in bitmap face
// and are shortened to fit their block. A canvas larger than
// [MaxPNGPixels] is rejected as INVALID_INPUT.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, labels: true, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	wf := max(math.Ceil(l.Width*r.scale), 1)
	hf := max(math.Ceil(l.Height*r.scale), 1)
	if math.IsNaN(wf*hf) || wf*hf > MaxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"png canvas %gx%g at scale %g exceeds %d pixels", wf, hf, r.scale, MaxPNGPixels)
	}
	dc := gg.NewContext(int(wf), int(hf))

	if _, _, _, err := styles.ParseHex(r.background); err != nil {
		return nil, fmt.Errorf("png background: %w", err)
	}
	dc.SetHexColor(r.background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	if r.grid {
		dc.SetHexColor("#cccccc")
		dc.SetLineWidth(1 / r.scale)
		dc.SetDash(4, 3)
		gridCells(l, func(x, y, cw, ch float64) {
			dc.DrawRectangle(x, y, cw, ch)
			dc.Stroke()
		})
		dc.SetDash()
	}

	blocks := buildBlocks(l)
	for _, b := range blocks {
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, min(4, b.W/2, b.H/2))
		dc.SetHexColor(b.Color)
		dc.FillPreserve()
		dc.SetHexColor("#333333")
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	if r.labels {
		for _, b := range blocks {
			label := fitLabel(dc, b.Label, b.W-8)
			if label == "" || b.H < 14 {
				continue
			}
			dc.SetHexColor(styles.TextColor(b.Color))
			dc.DrawStringAnchored(label, b.CX, b.CY, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitLabel trims label until it measures at most width, marking the cut
// with "..". Returns "" when not even three characters fit.
func fitLabel(dc *gg.Context, label string, width float64) string {
	if w, _ := dc.MeasureString(label); w <= width {
		return label
	}
	r := []rune(label)
	for n := len(r) - 1; n >= 1; n-- {
		s := string(r[:n]) + ".."
		if w, _ := dc.MeasureString(s); w <= width {
			return s
		}
	}
	return ""
}
