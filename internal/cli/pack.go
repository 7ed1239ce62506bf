package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// packCommand creates the pack command: items file in, rendered layout out.
func (c *CLI) packCommand() *cobra.Command {
	var (
		lf        layoutFlags
		rf        renderFlags
		output    string
		noCache   bool
		refresh   bool
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "pack [items.json|yaml|toml]",
		Short: "Pack items into a grid and render the layout",
		Long: `Pack items into a grid and render the layout.

Items are read from a JSON, YAML or TOML file of the form

  {"items": [{"id": "hero", "width": 320, "height": 180}, ...]}

and placed first fit, in reading order, into a grid of equal-width
columns. Each item spans as many columns and rows as its preferred size
rounds to. Items that find no free region are reported and left out;
use --row-bound to give the grid more rows, or --strict to fail instead.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Options()
			lf.apply(cmd, &opts)
			rf.apply(cmd, &opts)
			opts.Refresh = refresh
			return c.runPack(cmd.Context(), newStatus(cmd.OutOrStdout()), args[0], opts, output, noCache, showTable)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVarP(&showTable, "table", "t", false, "print the placements as a table")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// runPack loads the items, packs and renders them, and writes the outputs.
func (c *CLI) runPack(ctx context.Context, out status, input string, opts pipeline.Options, output string, noCache, showTable bool) error {
	items, err := io.ImportItems(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded items", "file", input, "count", len(items))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d items...", len(items)))
	spinner.Start()

	result, err := runner.Execute(ctx, items, opts)
	if err != nil {
		spinner.StopWithError(out, "Packing failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %s", input))

	l := result.Layout
	out.success("Packed %d of %d items into %d columns", len(l.Blocks), len(items), l.Columns)
	for _, p := range paths {
		out.file(p)
	}
	out.summary(l, result.CacheInfo.LayoutHit)

	if showTable {
		out.blank()
		out.block(placementTable(l))
		out.field("Column", fmt.Sprintf("%.1f px", l.ColumnWidth))
		out.field("Cell", fmt.Sprintf("%.1f px high", l.CellHeight))
		out.field("Frame", fmt.Sprintf("%.0f×%.0f px", l.Width, l.Height))
	}
	if l.Diagnostic != "" {
		out.warn("Packer reported an inconsistency: %s", l.Diagnostic)
	}
	if len(l.Unplaced) > 0 {
		out.warn("%d item(s) did not fit: %v", len(l.Unplaced), l.Unplaced)
		out.nextStep("Give the grid more rows", fmt.Sprintf("%s pack %s --row-bound %d", appName, input, suggestRowBound(l)))
	}
	return nil
}

// suggestRowBound returns a row bound that leaves room for at least one
// more item of the tallest allowed span below the rows already searched.
func suggestRowBound(l layout.Layout) int {
	tallest := l.MaxCellHeight
	if tallest < 1 {
		tallest = grid.DefaultMaxCellHeight
	}
	bound := max(l.RowBound, l.Rows, 1)
	return max(2*bound, bound+tallest)
}

// placementTable renders one row per block with its anchor, span and
// pixel rectangle.
func placementTable(l layout.Layout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		rows = append(rows, []string{
			strconv.Itoa(b.Index),
			b.ID,
			fmt.Sprintf("%d,%d", b.Col, b.Row),
			fmt.Sprintf("%d×%d", b.ColSpan, b.RowSpan),
			fmt.Sprintf("%.0f,%.0f", b.X, b.Y),
			fmt.Sprintf("%.0f×%.0f", b.Width, b.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("#", "ID", "Cell", "Span", "Origin", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 1 {
				return cellStyle.Foreground(colorAccent)
			}
			return cellStyle.Foreground(colorValue)
		})
	return t.Render()
}
