package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// newHelp returns a help model styled with theme.
func newHelp(theme Theme) help.Model {
	h := help.New()
	r := theme.Renderer
	keyStyle := r.NewStyle().Foreground(theme.Primary).Bold(true)
	descStyle := r.NewStyle().Foreground(theme.Subtext)
	sepStyle := r.NewStyle().Foreground(theme.Muted)
	h.Styles = help.Styles{
		ShortKey:       keyStyle,
		ShortDesc:      descStyle,
		ShortSeparator: sepStyle,
		FullKey:        keyStyle,
		FullDesc:       descStyle,
		FullSeparator:  sepStyle,
		Ellipsis:       sepStyle,
	}
	h.ShortSeparator = " · "
	h.FullSeparator = "  "
	return h
}

// renderHelp renders the key reference modal centered in a width x height
// area.
func renderHelp(h help.Model, keys KeyMap, theme Theme, width, height int) string {
	r := theme.Renderer

	title := r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Quick Reference")
	footer := r.NewStyle().Foreground(theme.Muted).Italic(true).Render("Esc or ? to close")

	h.Width = 0
	body := h.FullHelpView(keys.FullHelp())

	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
	modal = r.NewStyle().MaxWidth(width).MaxHeight(height).Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
