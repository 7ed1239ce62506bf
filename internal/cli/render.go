package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// renderCommand creates the render command for drawing a saved layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf      renderFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [board.layout.json]",
		Short: "Render a packed layout",
		Long: `Render a packed layout.

The render command takes a layout file (written by 'pack -f json') and
draws it as SVG, PNG, PDF, DOT or a Graphviz cell map. The layout holds
every position, so no packing happens here.

PDF output requires rsvg-convert (librsvg) on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Options()
			rf.apply(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), newStatus(cmd.OutOrStdout()), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	rf.register(cmd)

	return cmd
}

// runRender loads the layout and renders it.
func (c *CLI) runRender(ctx context.Context, out status, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := layout.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if opts.Style == "" && l.Style != "" {
		opts.Style = l.Style
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError(out, "Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     layoutBase(input),
		output:    output,
	})
	if err != nil {
		return err
	}

	out.success("Rendered %s", filepath.Base(input))
	for _, p := range paths {
		out.file(p)
	}
	out.summary(l, cacheHit)
	return nil
}

// layoutBase strips the ".layout" infix so board.layout.json renders to
// board.svg rather than board.layout.svg.
func layoutBase(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(strings.TrimSuffix(input, ext), ".layout") + ext
}
