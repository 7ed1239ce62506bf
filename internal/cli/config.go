package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// =============================================================================
// Config File
// =============================================================================

// Config is the contents of config.toml. Zero values fall through to the
// pipeline defaults; command-line flags override both.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds packing defaults.
type LayoutConfig struct {
	Columns       int      `toml:"columns,omitempty"`
	Aspect        float64  `toml:"aspect,omitempty"`
	Spacing       *float64 `toml:"spacing,omitempty"`
	Padding       float64  `toml:"padding,omitempty"`
	Width         float64  `toml:"width,omitempty"`
	MaxCellHeight int      `toml:"max_cell_height,omitempty"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats    []string `toml:"formats,omitempty"`
	Style      string   `toml:"style,omitempty"`
	ShowGrid   bool     `toml:"show_grid,omitempty"`
	HideLabels bool     `toml:"hide_labels,omitempty"`
	Scale      float64  `toml:"scale,omitempty"`
}

// ServerConfig holds `masonry serve` settings.
type ServerConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Redis    string `toml:"redis,omitempty"`
	Mongo    string `toml:"mongo,omitempty"`
	DataDir  string `toml:"data_dir,omitempty"`
	MaxItems int    `toml:"max_items,omitempty"`
}

// defaultAddr is the listen address when neither flag nor config sets one.
const defaultAddr = ":8080"

// loadConfig reads a config file. A missing file is an empty config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Options converts the file settings into pipeline options.
func (c Config) Options() pipeline.Options {
	opts := pipeline.Options{
		Columns:       c.Layout.Columns,
		Aspect:        c.Layout.Aspect,
		Spacing:       c.Layout.Spacing,
		Padding:       grid.Uniform(c.Layout.Padding),
		Width:         c.Layout.Width,
		MaxCellHeight: c.Layout.MaxCellHeight,
		Style:         c.Render.Style,
		ShowGrid:      c.Render.ShowGrid,
		HideLabels:    c.Render.HideLabels,
		Scale:         c.Render.Scale,
	}
	if len(c.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
	return opts
}

// effective returns c with every unset value replaced by its default.
func (c Config) effective() Config {
	opts := c.Options()
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	out := c
	out.Layout.Columns = opts.Columns
	out.Layout.Aspect = opts.Aspect
	out.Layout.Spacing = opts.Spacing
	out.Layout.Width = opts.Width
	out.Layout.MaxCellHeight = opts.MaxCellHeight
	out.Render.Formats = opts.Formats
	out.Render.Style = opts.Style
	out.Render.Scale = opts.Scale
	if out.Server.Addr == "" {
		out.Server.Addr = defaultAddr
	}
	return out
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/masonry/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns config.toml inside configDir, or "" when the
// home directory is unknown.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// =============================================================================
// Command
// =============================================================================

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as TOML.

Values come from the config file (default ~/.config/masonry/config.toml),
with built-in defaults filled in for anything the file leaves out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config.effective())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	})

	return cmd
}
