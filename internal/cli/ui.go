package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/masonry/pkg/layout"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// Styles shared with the preview screen.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorValue)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleOK          = lipgloss.NewStyle().Foreground(colorOK)
	styleFail        = lipgloss.NewStyle().Foreground(colorFail)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel)
	styleFieldKey    = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// status writes a command's human-readable result lines. Commands build
// one from cmd.OutOrStdout() so tests can capture what users see.
type status struct {
	w io.Writer
}

func newStatus(w io.Writer) status { return status{w: w} }

func (s status) line(icon string, iconStyle lipgloss.Style, msg string) {
	fmt.Fprintln(s.w, iconStyle.Render(icon)+" "+msg)
}

func (s status) success(format string, args ...any) {
	s.line(iconSuccess, styleOK, fmt.Sprintf(format, args...))
}

func (s status) failure(format string, args ...any) {
	s.line(iconError, styleFail, fmt.Sprintf(format, args...))
}

func (s status) warn(format string, args ...any) {
	s.line(iconWarning, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (s status) info(format string, args ...any) {
	s.line(iconInfo, styleLabel, fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line.
func (s status) detail(format string, args ...any) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (s status) file(path string) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// field prints a labeled value in a fixed-width key column.
func (s status) field(key, value string) {
	fmt.Fprintln(s.w, styleFieldKey.Render(key)+" "+StyleValue.Render(value))
}

// block prints preformatted text such as a table.
func (s status) block(text string) {
	fmt.Fprintln(s.w, strings.TrimRight(text, "\n"))
}

func (s status) blank() { fmt.Fprintln(s.w) }

// summary prints the placement counts and grid size of l on one line,
// ending with whether the layout came from the cache.
func (s status) summary(l layout.Layout, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d placed", len(l.Blocks))),
	}
	if n := len(l.Unplaced); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d unplaced", n)))
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d×%d grid", l.Columns, l.Rows)))
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleLabel.Render("fresh"))
	}
	fmt.Fprintln(s.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep suggests a follow-up command.
func (s status) nextStep(description, cmd string) {
	fmt.Fprintln(s.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
