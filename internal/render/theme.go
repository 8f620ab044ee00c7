// Package render styles drill's command output.
package render

import (
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Theme holds the styles used for one output stream. A plain theme renders
// text unchanged so output stays greppable when piped.
type Theme struct {
	Plain bool

	Title    lipgloss.Style
	Dim      lipgloss.Style
	Tag      lipgloss.Style
	Due      lipgloss.Style
	Good     lipgloss.Style
	Bad      lipgloss.Style
	Card     lipgloss.Style
	BarFill  lipgloss.Style
	BarEmpty lipgloss.Style
}

// New returns the styled theme, or a plain one when plain is set.
func New(plain bool) *Theme {
	if plain {
		s := lipgloss.NewStyle()
		return &Theme{
			Plain: true,
			Title: s, Dim: s, Tag: s, Due: s, Good: s, Bad: s, Card: s,
			BarFill: s, BarEmpty: s,
		}
	}
	return &Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),
		Dim: lipgloss.NewStyle().
			Foreground(TextDim),
		Tag: lipgloss.NewStyle().
			Foreground(Secondary),
		Due: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true),
		Good: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),
		Bad: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		BarFill: lipgloss.NewStyle().
			Background(Secondary),
		BarEmpty: lipgloss.NewStyle().
			Background(Border),
	}
}

// For picks a theme for w: styled on a terminal unless NO_COLOR is set.
func For(w io.Writer) *Theme {
	if os.Getenv("NO_COLOR") != "" {
		return New(true)
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return New(true)
	}
	return New(false)
}
