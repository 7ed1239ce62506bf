package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

func previewFixture(t *testing.T) previewModel {
	t.Helper()
	items := []layout.Item{
		{ID: "hero", Width: 200, Height: 100},
		{ID: "side", Width: 100, Height: 200},
		{ID: "tile", Width: 100, Height: 100},
	}
	opts := pipeline.Options{Columns: 3, Aspect: 1, Spacing: pipeline.Float(0), Width: 300}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	return newPreviewModel("board.yaml", items, opts)
}

func press(m previewModel, keys string) previewModel {
	for _, r := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(previewModel)
	}
	return m
}

func TestPreviewInitialPack(t *testing.T) {
	m := previewFixture(t)
	if m.err != nil {
		t.Fatalf("initial pack: %v", m.err)
	}
	if len(m.layout.Blocks) != 3 || m.layout.Rows != 2 {
		t.Errorf("layout = %d blocks, %d rows", len(m.layout.Blocks), m.layout.Rows)
	}

	view := m.View()
	for _, want := range []string{"masonry preview", "board.yaml", "3/3 placed", " her"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreviewKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  string
		check func(t *testing.T, m previewModel)
	}{
		{"more columns", "+", func(t *testing.T, m previewModel) {
			if m.opts.Columns != 4 || m.layout.Columns != 4 {
				t.Errorf("columns = %d / %d, want 4", m.opts.Columns, m.layout.Columns)
			}
		}},
		{"fewer columns stops at one", "----", func(t *testing.T, m previewModel) {
			if m.opts.Columns != 1 {
				t.Errorf("columns = %d, want 1", m.opts.Columns)
			}
		}},
		{"taller cells", "]", func(t *testing.T, m previewModel) {
			if m.opts.Aspect != aspectStep || m.layout.CellHeight != 100*aspectStep {
				t.Errorf("aspect = %v, cell height = %v", m.opts.Aspect, m.layout.CellHeight)
			}
		}},
		{"gutter never negative", "{{", func(t *testing.T, m previewModel) {
			if m.opts.SpacingValue() != 0 {
				t.Errorf("spacing = %v, want 0", m.opts.SpacingValue())
			}
		}},
		{"wider gutter", "}", func(t *testing.T, m previewModel) {
			if m.opts.SpacingValue() != spacingStep {
				t.Errorf("spacing = %v, want %v", m.opts.SpacingValue(), spacingStep)
			}
		}},
		{"reset", "++]r", func(t *testing.T, m previewModel) {
			if m.opts.Columns != 3 || m.opts.Aspect != 1 {
				t.Errorf("after reset: columns %d aspect %v", m.opts.Columns, m.opts.Aspect)
			}
		}},
		{"help toggles", "?", func(t *testing.T, m previewModel) {
			if !m.help.ShowAll {
				t.Error("help not expanded")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, press(previewFixture(t), tt.keys))
		})
	}
}

func TestPreviewRejectedConfigKeepsLayout(t *testing.T) {
	m := previewFixture(t)
	m.opts.Spacing = pipeline.Float(200)
	m.repack()

	if m.err == nil {
		t.Fatal("expected a configuration error")
	}
	if len(m.layout.Blocks) != 3 {
		t.Errorf("previous layout lost: %d blocks", len(m.layout.Blocks))
	}
	if !strings.Contains(m.View(), "CONFIGURATION_ERROR") {
		t.Error("view does not show the error")
	}
}

func TestPreviewQuit(t *testing.T) {
	_, cmd := previewFixture(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestCellLabelTail(t *testing.T) {
	tests := []struct {
		label  string
		offset int
		width  int
		want   string
	}{
		{"hero", 0, 8, " her"},
		{"hero", 1, 8, "o"},
		{"hero", 2, 8, ""},
		{"a-long-label", 1, 8, "ong-"},
		{"a-long-label", 2, 8, ""},
	}
	for _, tt := range tests {
		if got := cellLabelTail(tt.label, tt.offset, tt.width); got != tt.want {
			t.Errorf("cellLabelTail(%q, %d, %d) = %q, want %q", tt.label, tt.offset, tt.width, got, tt.want)
		}
	}
}

func TestPackCommandLine(t *testing.T) {
	m := press(previewFixture(t), "+")
	want := "masonry pack board.yaml --columns 4 --aspect 1 --spacing 0"
	if got := m.packCommandLine(); got != want {
		t.Errorf("packCommandLine() = %q, want %q", got, want)
	}
}
