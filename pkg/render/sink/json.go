package sink

import (
	"github.com/matzehuels/masonry/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style   string
	palette bool
}

// WithJSONStyle records the style name (e.g., "simple", "outline") in the
// JSON output so the layout can be re-rendered the same way.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONColors fills in palette colors for blocks that have none, so
// external tools see the colors the image sinks would use.
func WithJSONColors() JSONOption { return func(r *jsonRenderer) { r.palette = true } }

// RenderJSON serializes the layout in the [layout] wire format.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	if r.style != "" {
		l.Style = r.style
	}
	if r.palette {
		blocks := make([]layout.Block, len(l.Blocks))
		for i, b := range l.Blocks {
			b.Color = blockColor(b)
			blocks[i] = b
		}
		l.Blocks = blocks
	}
	return layout.Marshal(l)
}
