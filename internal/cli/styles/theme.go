// Package styles renders workspace frames and CLI output with lipgloss.
package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/termdeck/internal/domain/terminal"
)

// Palette is the set of hex colors a Theme is built from.
type Palette struct {
	Text   string
	Muted  string
	Accent string
	Border string
	Dir    string
	Error  string
	Select string
}

// DefaultPalette returns the built-in dark colors.
func DefaultPalette() Palette {
	return Palette{
		Text:   "#e4e4e7",
		Muted:  "#71717a",
		Accent: "#4ade80",
		Border: "#3f3f46",
		Dir:    "#60a5fa",
		Error:  "#f87171",
		Select: "#27272a",
	}
}

// Theme holds the cell styles the frame renderer paints with and the
// lipgloss styles used by CLI output.
type Theme struct {
	Border        CellStyle
	FocusedBorder CellStyle
	PaneTitle     CellStyle
	FocusedTitle  CellStyle
	Dir           CellStyle
	File          CellStyle
	Selected      CellStyle
	ErrorCell     CellStyle
	MutedCell     CellStyle
	LineNumber    CellStyle
	Cursor        CellStyle

	Title      lipgloss.Style
	Subtle     lipgloss.Style
	Highlight  lipgloss.Style
	ErrorStyle lipgloss.Style
	StatusBar  lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
}

// NewTheme builds a Theme from p.
func NewTheme(p Palette) *Theme {
	t := &Theme{}
	text, muted, accent := hexColor(p.Text), hexColor(p.Muted), hexColor(p.Accent)

	t.Border = CellStyle{FG: hexColor(p.Border)}
	t.FocusedBorder = CellStyle{FG: accent}
	t.PaneTitle = CellStyle{FG: muted}
	t.FocusedTitle = CellStyle{FG: accent, Attrs: terminal.AttrBold}
	t.Dir = CellStyle{FG: hexColor(p.Dir), Attrs: terminal.AttrBold}
	t.File = CellStyle{FG: text}
	t.Selected = CellStyle{FG: text, BG: hexColor(p.Select), Attrs: terminal.AttrBold}
	t.ErrorCell = CellStyle{FG: hexColor(p.Error)}
	t.MutedCell = CellStyle{FG: muted}
	t.LineNumber = CellStyle{FG: muted, Attrs: terminal.AttrDim}
	t.Cursor = CellStyle{Attrs: terminal.AttrReverse}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent))
	t.Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	t.Highlight = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error))
	t.StatusBar = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	t.HelpKey = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent))
	t.HelpDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	return t
}

// hexColor parses "#rrggbb". Anything else is the terminal default.
func hexColor(s string) terminal.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return terminal.Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return terminal.Color{}
	}
	return terminal.RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}
