package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#2457D6")
	muted   = lipgloss.Color("#808080")
	danger  = lipgloss.Color("#CC3333")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(muted)
	activeTabStyle = tabStyle.BorderForeground(primary).Bold(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
	errorStyle     = lipgloss.NewStyle().Foreground(danger).MarginTop(1)
	resultsStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1).MarginTop(1)
)
