package styles

import (
	"fmt"
	"strconv"
	"strings"
)

// Palette is the fallback fill cycle for items without a color.
var Palette = []string{
	"#e07a5f", "#3d405b", "#81b29a", "#f2cc8f", "#6d597a",
	"#457b9d", "#e63946", "#2a9d8f", "#f4a261", "#8d99ae",
}

// BlockColor returns color when set, otherwise the palette entry for index.
func BlockColor(color string, index int) string {
	if color != "" {
		return color
	}
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// ParseHex parses "#rgb" or "#rrggbb" into its components.
func ParseHex(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// TextColor picks black or white text for legibility on fill.
// Fills that are not hex colors get black.
func TextColor(fill string) string {
	r, g, b, err := ParseHex(fill)
	if err != nil {
		return "#000"
	}
	// ITU-R BT.601 luma
	if 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) < 140 {
		return "#fff"
	}
	return "#000"
}
