package sink

import (
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions sets the style, grid and label options of the page.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the layout as a single PDF page the size of the
// container. The page is the SVG rendering converted by rsvg-convert; a
// missing converter is reported as UNSUPPORTED wrapping
// [render.ErrConverterNotFound].
func RenderPDF(l layout.Layout, opts ...PDFOption) ([]byte, error) {
	if !render.HasConverter() {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, render.ErrConverterNotFound, "pdf output needs rsvg-convert")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no area (%gx%g)", l.Width, l.Height)
	}

	var r pdfRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(RenderSVG(l, r.svgOpts...))
}
