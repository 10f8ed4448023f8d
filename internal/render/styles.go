package render

import (
	"github.com/charmbracelet/lipgloss"

	"revim/internal/config"
)

// Styles applied to the status and message rows when they are written out.
// The screen buffer itself only holds plain cells.
type Styles struct {
	Mode    lipgloss.Style
	Status  lipgloss.Style
	Message lipgloss.Style
	Error   lipgloss.Style
}

// ThemeStyles builds row styles from the configured theme.
func ThemeStyles(t config.Theme) Styles {
	return Styles{
		Mode: lipgloss.NewStyle().
			Background(lipgloss.Color(t.ModeBg)).
			Foreground(lipgloss.Color(t.ModeFg)).
			Bold(true),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color(t.StatusBg)).
			Foreground(lipgloss.Color(t.StatusFg)),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.MessageFg)),
		Error: lipgloss.NewStyle().
			Background(lipgloss.Color(t.ErrorBg)).
			Foreground(lipgloss.Color(t.ErrorFg)).
			Bold(true),
	}
}

// PlainStyles renders everything unstyled.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Mode: s, Status: s, Message: s, Error: s}
}
