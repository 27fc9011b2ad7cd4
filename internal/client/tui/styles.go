package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/docvault/internal/client/reader"
)

type styles struct {
	header  lipgloss.Style
	footer  lipgloss.Style
	surface lipgloss.Style
	notice  lipgloss.Style
	pending lipgloss.Style
}

// newStyles builds the chrome for a reader theme. The application theme
// only decides the header accent.
func newStyles(t reader.Theme, dark bool) styles {
	p := t.Palette()
	accent := lipgloss.Color("#4F46E5")
	if dark {
		accent = lipgloss.Color("#818CF8")
	}
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Padding(0, 1),
		surface: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Background)).
			Foreground(lipgloss.Color(p.Text)),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC2626")).
			Padding(1, 2),
		pending: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#9CA3AF")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Align(lipgloss.Center, lipgloss.Center),
	}
}
