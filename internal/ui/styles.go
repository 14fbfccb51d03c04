package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1).
			Width(40)

	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("10")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	logStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)
