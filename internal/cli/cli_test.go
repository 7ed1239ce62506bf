package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
)

const testItems = `{"items": [
	{"id": "hero", "width": 200, "height": 100},
	{"id": "side", "width": 100, "height": 200},
	{"id": "tile", "width": 100, "height": 100}
]}`

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeItems(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte(testItems), 0600); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"pack", "render", "preview", "serve", "cache", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPackAndRender(t *testing.T) {
	dir, items := writeItems(t)

	out, err := run(t, "pack", items, "-f", "json,dot", "--columns", "3", "--aspect", "1", "--spacing", "0", "--width", "300", "--no-cache")
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !strings.Contains(out, "Packed 3 of 3 items") || !strings.Contains(out, "board.layout.json") {
		t.Errorf("pack output = %q", out)
	}

	l, err := layout.ReadFile(filepath.Join(dir, "board.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(l.Blocks) != 3 || l.Rows != 2 || l.Columns != 3 {
		t.Errorf("layout = %d blocks in %dx%d", len(l.Blocks), l.Columns, l.Rows)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.dot")); err != nil {
		t.Errorf("dot output missing: %v", err)
	}

	if _, err := run(t, "render", filepath.Join(dir, "board.layout.json"), "-f", "svg", "--grid"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "board.svg"))
	if err != nil {
		t.Fatalf("svg output missing: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("render output is not SVG")
	}
}

func TestPackStrict(t *testing.T) {
	_, items := writeItems(t)
	_, err := run(t, "pack", items, "-f", "json", "--columns", "1", "--row-bound", "1", "--strict", "--no-cache")
	if !errors.Is(err, errors.ErrCodePlacementExhausted) {
		t.Errorf("pack --strict error = %v, want PLACEMENT_EXHAUSTED", err)
	}
}

func TestPackSuggestsRowBound(t *testing.T) {
	_, items := writeItems(t)
	out, err := run(t, "pack", items, "-f", "json", "--columns", "1", "--aspect", "1", "--spacing", "0",
		"--width", "100", "--row-bound", "1", "--no-cache")
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !strings.Contains(out, "2 item(s) did not fit") || !strings.Contains(out, "--row-bound 11") {
		t.Errorf("pack output = %q, want unplaced warning and --row-bound 11", out)
	}
}

func TestSuggestRowBound(t *testing.T) {
	tests := []struct {
		name string
		l    layout.Layout
		want int
	}{
		{"nothing placed", layout.Layout{RowBound: 1, MaxCellHeight: 2}, 3},
		{"default span limit", layout.Layout{RowBound: 1, Rows: 1}, 11},
		{"large bound doubles", layout.Layout{RowBound: 40, Rows: 38, MaxCellHeight: 10}, 80},
		{"no bound recorded", layout.Layout{}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggestRowBound(tt.l); got != tt.want {
				t.Errorf("suggestRowBound() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(items string) []string
		code errors.Code
	}{
		{"missing file", func(string) []string { return []string{"pack", "/nonexistent/items.json"} }, errors.ErrCodeFileNotFound},
		{"bad format", func(items string) []string { return []string{"pack", items, "-f", "gif"} }, errors.ErrCodeInvalidInput},
		{"bad style", func(items string) []string { return []string{"pack", items, "--style", "sketchy"} }, errors.ErrCodeInvalidInput},
		{"gutters too wide", func(items string) []string {
			return []string{"pack", items, "--columns", "4", "--spacing", "20", "--width", "50"}
		}, errors.ErrCodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, items := writeItems(t)
			_, err := run(t, append(tt.args(items), "--no-cache")...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigCommandUsesFile(t *testing.T) {
	cfgPath := writeConfig(t, "[layout]\ncolumns = 2\n\n[server]\naddr = \":9999\"\n")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("config: %v", err)
	}

	got := out.String()
	for _, want := range []string{"[layout]", "columns = 2", "spacing = 8.0", `addr = ":9999"`, `style = "simple"`} {
		if !strings.Contains(got, want) {
			t.Errorf("config output missing %q:\n%s", want, got)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path", "--config", filepath.Join(t.TempDir(), "absent.toml")})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out.String()), filepath.Join(cacheHome, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	root.SetArgs([]string{"cache", "clear", "--config", filepath.Join(t.TempDir(), "absent.toml")})
	if err := root.Execute(); err != nil {
		t.Errorf("cache clear: %v", err)
	}

	out.Reset()
	root.SetArgs([]string{"cache", "prune", "--config", filepath.Join(t.TempDir(), "absent.toml")})
	if err := root.Execute(); err != nil {
		t.Errorf("cache prune: %v", err)
	}
	if !strings.Contains(out.String(), "Pruned 0 expired entries") {
		t.Errorf("cache prune output = %q", out.String())
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "masonry") {
		t.Error("bash completion does not mention masonry")
	}
}
