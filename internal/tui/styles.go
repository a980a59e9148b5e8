package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	headerDimStyle = lipgloss.NewStyle().Faint(true)
	footerStyle    = lipgloss.NewStyle().Faint(true)

	currentStyle = lipgloss.NewStyle().Reverse(true)
	stubStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)
