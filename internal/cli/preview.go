package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render/styles"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "preview [items.json|yaml|toml]",
		Short: "Interactively tune a packing in the terminal",
		Long: `Interactively tune a packing in the terminal.

The grid is repacked on every change:
  + / -   add or remove a column
  ] / [   taller or flatter cells
  } / {   wider or narrower gutters
  r       reset to the starting options

On exit the equivalent pack command is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := io.ImportItems(args[0])
			if err != nil {
				return err
			}
			opts := c.Config.Options()
			lf.apply(cmd, &opts)
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}

			m := newPreviewModel(args[0], items, opts)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if pm, ok := final.(previewModel); ok {
				newStatus(cmd.OutOrStdout()).nextStep("Pack with these settings", pm.packCommandLine())
			}
			return nil
		},
	}

	lf.register(cmd)
	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

type previewKeyMap struct {
	MoreColumns  key.Binding
	FewerColumns key.Binding
	Taller       key.Binding
	Flatter      key.Binding
	WiderGutter  key.Binding
	NarrowGutter key.Binding
	Reset        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		MoreColumns:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more columns")),
		FewerColumns: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer columns")),
		Taller:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "taller cells")),
		Flatter:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "flatter cells")),
		WiderGutter:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "wider gutter")),
		NarrowGutter: key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "narrower gutter")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoreColumns, k.FewerColumns, k.Taller, k.Flatter, k.Help, k.Quit}
}

func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.MoreColumns, k.FewerColumns},
		{k.Taller, k.Flatter},
		{k.WiderGutter, k.NarrowGutter},
		{k.Reset, k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

const (
	previewCellWidth = 4
	aspectStep       = 1.25
	spacingStep      = 2.0
)

// previewModel repacks items whenever the grid options change.
type previewModel struct {
	file    string
	items   []layout.Item
	initial pipeline.Options
	opts    pipeline.Options
	packer  *grid.Packer

	layout layout.Layout
	err    error

	keys   previewKeyMap
	help   help.Model
	height int
}

func newPreviewModel(file string, items []layout.Item, opts pipeline.Options) previewModel {
	opts.Strict = false
	m := previewModel{
		file:    file,
		items:   items,
		initial: opts,
		opts:    opts,
		packer:  grid.NewPacker(),
		keys:    newPreviewKeyMap(),
		help:    help.New(),
		height:  40,
	}
	m.repack()
	return m
}

// repack runs the packer with the current options. A rejected
// configuration keeps the previous layout and shows the error.
func (m *previewModel) repack() {
	l, _, err := pipeline.PackLayout(m.packer, m.items, m.opts)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.layout = l
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.MoreColumns):
			m.opts.Columns++
		case key.Matches(msg, m.keys.FewerColumns):
			if m.opts.Columns <= 1 {
				return m, nil
			}
			m.opts.Columns--
		case key.Matches(msg, m.keys.Taller):
			m.opts.Aspect *= aspectStep
		case key.Matches(msg, m.keys.Flatter):
			m.opts.Aspect /= aspectStep
		case key.Matches(msg, m.keys.WiderGutter):
			m.opts.Spacing = pipeline.Float(m.opts.SpacingValue() + spacingStep)
		case key.Matches(msg, m.keys.NarrowGutter):
			m.opts.Spacing = pipeline.Float(max(0, m.opts.SpacingValue()-spacingStep))
		case key.Matches(msg, m.keys.Reset):
			m.opts = m.initial
		default:
			return m, nil
		}
		m.repack()
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("masonry preview"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.file))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	// header, status, blank, footer lines and help
	maxRows := max(1, m.height-8)
	b.WriteString(m.gridView(maxRows))
	b.WriteString("\n")

	if len(m.layout.Unplaced) > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d unplaced: %s", len(m.layout.Unplaced), strings.Join(m.layout.Unplaced, ", "))))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(colorFail).Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m previewModel) statusLine() string {
	l := m.layout
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render("columns ") + StyleNumber.Render(fmt.Sprint(m.opts.Columns)),
		StyleDim.Render("aspect ") + StyleNumber.Render(fmt.Sprintf("%.2f", m.opts.Aspect)),
		StyleDim.Render("spacing ") + StyleNumber.Render(fmt.Sprintf("%g", m.opts.SpacingValue())),
		StyleDim.Render("cell ") + StyleNumber.Render(fmt.Sprintf("%.0f×%.0f", l.ColumnWidth, l.CellHeight)),
		StyleHighlight.Render(fmt.Sprintf("%d/%d placed", len(l.Blocks), len(m.items))),
	}
	return strings.Join(parts, sep)
}

// gridView draws the occupancy map, one terminal line per grid row and
// previewCellWidth characters per column. Anchor cells carry the start of
// the block's label.
func (m previewModel) gridView(maxRows int) string {
	l := m.layout
	occ := l.Occupancy()
	free := StyleDim.Render(fmt.Sprintf("%-*s", previewCellWidth, " ·"))

	var b strings.Builder
	for y, row := range occ {
		if y >= maxRows {
			b.WriteString(StyleDim.Render(fmt.Sprintf("… %d more rows", len(occ)-maxRows)))
			b.WriteString("\n")
			break
		}
		for x, k := range row {
			if k < 0 {
				b.WriteString(free)
				continue
			}
			blk := l.Blocks[k]
			fill := styles.BlockColor(blk.Color, blk.Index)
			text := ""
			if x == blk.Col && y == blk.Row {
				text = cellLabel(blk.Label, blk.ColSpan*previewCellWidth)
			} else if y == blk.Row {
				text = cellLabelTail(blk.Label, x-blk.Col, blk.ColSpan*previewCellWidth)
			}
			b.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(fill)).
				Foreground(lipgloss.Color(styles.TextColor(fill))).
				Width(previewCellWidth).
				MaxWidth(previewCellWidth).
				Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cellLabel returns the first cell's slice of a label laid across width
// characters.
func cellLabel(label string, width int) string {
	return cellLabelTail(label, 0, width)
}

// cellLabelTail returns the slice of a label (truncated to width runes)
// that falls in the cell at offset columns from the block's anchor.
func cellLabelTail(label string, offset, width int) string {
	r := []rune(" " + label)
	if len(r) > width {
		r = r[:width]
	}
	start := offset * previewCellWidth
	if start >= len(r) {
		return ""
	}
	end := min(len(r), start+previewCellWidth)
	return string(r[start:end])
}

// packCommandLine is the pack invocation reproducing the current options.
func (m previewModel) packCommandLine() string {
	return fmt.Sprintf("%s pack %s --columns %d --aspect %.4g --spacing %g",
		appName, m.file, m.opts.Columns, m.opts.Aspect, m.opts.SpacingValue())
}
