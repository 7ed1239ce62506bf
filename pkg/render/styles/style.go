package styles

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// Name returns the registry name of the style.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the SVG for a single block shape.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a block's label text.
	RenderText(buf *bytes.Buffer, b Block)
}

// Block contains all data needed to render a single placed item.
type Block struct {
	ID         string  // Item identifier
	Label      string  // Display text
	X, Y, W, H float64 // Position and dimensions
	CX, CY     float64 // Center coordinates (for text)
	URL        string  // Optional link target
	Color      string  // Fill or accent color
}

var registry = map[string]Style{
	Simple{}.Name():  Simple{},
	Outline{}.Name(): Outline{},
}

// DefaultName is the style used when none is given.
const DefaultName = "simple"

// Names returns the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Parse returns the style registered under name. An empty name selects
// the default style.
func Parse(name string) (Style, error) {
	if name == "" {
		name = DefaultName
	}
	s, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown style %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// =============================================================================
// Simple
// =============================================================================

// Simple draws solid rounded blocks with a thin dark outline.
type Simple struct{}

func (Simple) Name() string                 { return "simple" }
func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	WrapURL(buf, b.URL, func() {
		fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s" stroke="#333" stroke-width="1"/>`,
			EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Color))
	})
	buf.WriteByte('\n')
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	renderLabel(buf, b, TextColor(b.Color))
}

// =============================================================================
// Outline
// =============================================================================

// Outline draws white blocks with a colored border and label.
type Outline struct{}

func (Outline) Name() string { return "outline" }

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs><filter id="outline-shadow" x="-10%" y="-10%" width="120%" height="120%"><feDropShadow dx="1" dy="1" stdDeviation="1" flood-opacity="0.25"/></filter></defs>` + "\n")
}

func (Outline) RenderBlock(buf *bytes.Buffer, b Block) {
	WrapURL(buf, b.URL, func() {
		fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="white" stroke="%s" stroke-width="2" filter="url(#outline-shadow)"/>`,
			EscapeXML(b.ID), b.X+1, b.Y+1, max(b.W-2, 0), max(b.H-2, 0), EscapeXML(b.Color))
	})
	buf.WriteByte('\n')
}

func (Outline) RenderText(buf *bytes.Buffer, b Block) {
	renderLabel(buf, b, b.Color)
}

func renderLabel(buf *bytes.Buffer, b Block, color string) {
	if b.Label == "" || b.W < fontSizeMin || b.H < fontSizeMin {
		return
	}
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, b.CY, FontSize(b), EscapeXML(color), EscapeXML(TruncateLabel(b)))
}
