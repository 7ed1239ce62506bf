package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
)

func TestReadItemsFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "json",
			format: FormatJSON,
			input:  `{"items": [{"id": "hero", "width": 320, "height": 180, "label": "Hero"}, {"id": "side", "width": 160, "height": 360}]}`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input: `items:
  - id: hero
    width: 320
    height: 180
    label: Hero
  - id: side
    width: 160
    height: 360
`,
		},
		{
			name:   "toml",
			format: FormatTOML,
			input: `[[items]]
id = "hero"
width = 320.0
height = 180.0
label = "Hero"

[[items]]
id = "side"
width = 160.0
height = 360.0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ReadItems(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadItems: %v", err)
			}
			if len(items) != 2 {
				t.Fatalf("got %d items, want 2", len(items))
			}
			if items[0].ID != "hero" || items[0].Width != 320 || items[0].Height != 180 || items[0].Label != "Hero" {
				t.Errorf("items[0] = %+v", items[0])
			}
			if items[1].ID != "side" || items[1].Height != 360 {
				t.Errorf("items[1] = %+v", items[1])
			}
		})
	}
}

func TestReadItemsValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
	}{
		{"malformed", `{"items": [`, errors.ErrCodeInvalidFormat},
		{"duplicate id", `{"items": [{"id": "a", "width": 1, "height": 1}, {"id": "a", "width": 1, "height": 1}]}`, errors.ErrCodeInvalidItem},
		{"negative width", `{"items": [{"id": "a", "width": -1, "height": 1}]}`, errors.ErrCodeInvalidInput},
		{"control char id", `{"items": [{"id": "a\u0007", "width": 1, "height": 1}]}`, errors.ErrCodeInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadItems(strings.NewReader(tt.input), FormatJSON)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s (%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestReadItemsAutoID(t *testing.T) {
	items, err := ReadItems(strings.NewReader(`{"items": [{"width": 1, "height": 1}, {"id": "b", "width": 1, "height": 1}, {"width": 1, "height": 1}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	want := []string{"item-0", "b", "item-2"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestReadItemsEmptyYAML(t *testing.T) {
	items, err := ReadItems(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"board.json", FormatJSON, true},
		{"board.YAML", FormatYAML, true},
		{"dir/board.yml", FormatYAML, true},
		{"board.toml", FormatTOML, true},
		{"board.csv", "", false},
		{"board", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err == nil) != tt.ok {
				t.Fatalf("FormatFromPath(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	items := []layout.Item{
		{ID: "hero", Label: "Hero", Width: 320, Height: 180, Color: "#e07a5f"},
		{ID: "side", Width: 160.5, Height: 360, URL: "https://example.com/side"},
	}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteItems(items, &buf, format); err != nil {
				t.Fatalf("WriteItems: %v", err)
			}
			got, err := ReadItems(&buf, format)
			if err != nil {
				t.Fatalf("ReadItems: %v\n%s", err, buf.String())
			}
			if len(got) != len(items) {
				t.Fatalf("got %d items, want %d", len(got), len(items))
			}
			for i := range items {
				if got[i].ID != items[i].ID || got[i].Width != items[i].Width ||
					got[i].Height != items[i].Height || got[i].Color != items[i].Color || got[i].URL != items[i].URL {
					t.Errorf("item %d = %+v, want %+v", i, got[i], items[i])
				}
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	items := []layout.Item{{ID: "a", Width: 10, Height: 20}}
	dir := t.TempDir()

	path := filepath.Join(dir, "items.yaml")
	if err := ExportItems(items, path); err != nil {
		t.Fatalf("ExportItems: %v", err)
	}
	got, err := ImportItems(path)
	if err != nil {
		t.Fatalf("ImportItems: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" || got[0].Height != 20 {
		t.Errorf("ImportItems = %+v", got)
	}

	if _, err := ImportItems(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if err := ExportItems(items, filepath.Join(dir, "items.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension error = %v, want INVALID_FORMAT", err)
	}
}

func TestImportSampleBoards(t *testing.T) {
	want, err := ImportItems(filepath.Join("..", "..", "examples", "board.json"))
	if err != nil {
		t.Fatalf("ImportItems(board.json): %v", err)
	}
	if len(want) != 9 || want[0].ID != "hero" || want[5].URL == "" {
		t.Fatalf("board.json = %+v", want)
	}

	for _, name := range []string{"board.yaml", "board.toml"} {
		t.Run(name, func(t *testing.T) {
			got, err := ImportItems(filepath.Join("..", "..", "examples", name))
			if err != nil {
				t.Fatalf("ImportItems: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("items = %d, want %d", len(got), len(want))
			}
			for i := range want {
				g, w := got[i], want[i]
				if g.ID != w.ID || g.Label != w.Label || g.Width != w.Width ||
					g.Height != w.Height || g.Color != w.Color || g.URL != w.URL {
					t.Errorf("item %d = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}
