package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/masonry/pkg/layout"
)

func TestStatusSummary(t *testing.T) {
	l := layout.Layout{
		Columns:  3,
		Rows:     4,
		Blocks:   []layout.Block{{ID: "a"}, {ID: "b"}},
		Unplaced: []string{"c"},
	}

	tests := []struct {
		name   string
		layout layout.Layout
		cached bool
		want   []string
		absent []string
	}{
		{"fresh with unplaced", l, false, []string{"2 placed", "1 unplaced", "3×4 grid", "fresh"}, []string{"cached"}},
		{"cached", layout.Layout{Columns: 1, Rows: 1, Blocks: []layout.Block{{ID: "a"}}}, true, []string{"1 placed", "cached"}, []string{"unplaced", "fresh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newStatus(&buf).summary(tt.layout, tt.cached)
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("summary %q missing %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("summary %q should not contain %q", got, a)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	out := newStatus(&buf)
	out.success("packed %d", 3)
	out.failure("broke")
	out.file("board.svg")
	out.field("Column", "100.0 px")
	out.nextStep("Try", "masonry pack board.json")

	got := buf.String()
	for _, want := range []string{iconSuccess, "packed 3", iconError, "broke", iconArrow, "board.svg", "Column", "100.0 px", "masonry pack board.json"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "\n"); n != 5 {
		t.Errorf("lines = %d, want 5", n)
	}
}
