package snapshot

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	spec    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		spec:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}
