package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorBase    = lipgloss.Color("#1B2430")
	ColorMuted   = lipgloss.Color("#7D8A99")
	ColorText    = lipgloss.Color("#DDE4EC")
	ColorAccent  = lipgloss.Color("#5FB3B3")
	ColorWarning = lipgloss.Color("#F9E2AF")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2).
			Width(64)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	CardTextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Underline(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Padding(0, 1)

	NavStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Padding(0, 1)
)
