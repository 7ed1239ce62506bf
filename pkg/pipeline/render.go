package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/render/sink"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	style, err := styles.Parse(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(style, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, buildPNGOptions(opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONStyle(style.Name()))
		case FormatDOT:
			data = []byte(sink.ToDOT(l))
		case FormatCellMap:
			data, err = sink.RenderCellMap(ctx, l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(style styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.ShowGrid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}
	if opts.HideLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.ShowGrid {
		pngOpts = append(pngOpts, sink.WithPNGGrid())
	}
	if opts.HideLabels {
		pngOpts = append(pngOpts, sink.WithoutPNGLabels())
	}
	return pngOpts
}
