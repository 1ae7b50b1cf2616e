package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

// Theme preference values persisted in the theme slot.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

const defaultAccent = "#5B8DEF"

// styles holds every lipgloss style the views share. Rebuilt whenever the
// theme or accent preference changes.
type styles struct {
	theme  string
	accent string

	header    lipgloss.Style
	nav       lipgloss.Style
	navActive lipgloss.Style
	title     lipgloss.Style
	meta      lipgloss.Style
	hint      lipgloss.Style
	errorText lipgloss.Style
	card      lipgloss.Style
	cardFocus lipgloss.Style
	pinned    lipgloss.Style
	label     lipgloss.Style
	selected  lipgloss.Style
}

func newStyles(theme, accent string) styles {
	if accent == "" {
		accent = defaultAccent
	}
	textColor := lipgloss.Color("#CCCCCC")
	dimColor := lipgloss.Color("#888888")
	if theme == ThemeLight {
		textColor = lipgloss.Color("#333333")
		dimColor = lipgloss.Color("#777777")
	}
	accentColor := lipgloss.Color(accent)
	return styles{
		theme:     theme,
		accent:    accent,
		header:    lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1),
		nav:       lipgloss.NewStyle().Foreground(dimColor),
		navActive: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		title:     lipgloss.NewStyle().Bold(true).Foreground(textColor),
		meta:      lipgloss.NewStyle().Foreground(dimColor),
		hint:      lipgloss.NewStyle().Foreground(dimColor).MarginTop(1),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
		cardFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1),
		pinned:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		label:    lipgloss.NewStyle().Foreground(accentColor),
		selected: lipgloss.NewStyle().Bold(true).Foreground(accentColor),
	}
}

// loadStyles reads the persisted theme and accent preferences.
func loadStyles(st store.Store) styles {
	theme, _ := st.Load(store.SlotTheme)
	if theme == "" {
		theme = ThemeSystem
	}
	accent, _ := st.Load(store.SlotAccent)
	return newStyles(theme, accent)
}
