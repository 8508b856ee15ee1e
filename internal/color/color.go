// Package color decides whether operator output is colored and holds the
// lipgloss styles used by the doctor table.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile reports whether the environment allows color. Color is off when
// noColor is set, when NO_COLOR is present with any value (https://no-color.org),
// when CLICOLOR=0, or when TERM=dumb.
func Profile(noColor bool) bool {
	if noColor {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	return os.Getenv("CLICOLOR") != "0" && os.Getenv("TERM") != "dumb"
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Enabled combines Profile with a terminal check on f. Piped or redirected
// output is always plain.
func Enabled(f *os.File, noColor bool) bool {
	return IsTerminal(f) && Profile(noColor)
}

// Theme holds the doctor styles. The zero Theme renders text unchanged.
type Theme struct {
	Pass    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Skip    lipgloss.Style
	Header  lipgloss.Style
	Name    lipgloss.Style
	Border  lipgloss.Style
}

// NewTheme returns the colored theme, or the zero Theme when color is false.
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Name:    lipgloss.NewStyle().Bold(true),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
