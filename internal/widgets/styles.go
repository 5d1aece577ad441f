package widgets

import "github.com/charmbracelet/lipgloss"

// Palette shared with the TUI shell.
var (
	ColorBlue   = lipgloss.Color("39")
	ColorNavy   = lipgloss.Color("17")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorGreen  = lipgloss.Color("42")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorYellow = lipgloss.Color("220")
)

var (
	labelStyle        = lipgloss.NewStyle().Foreground(ColorWhite)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(ColorRed)
	mutedStyle        = lipgloss.NewStyle().Foreground(ColorGray)
	selectedStyle     = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	changedStyle      = lipgloss.NewStyle().Foreground(ColorOrange)
)

func renderLabel(label string, focused bool) string {
	if focused {
		return focusedLabelStyle.Render("▸ " + label)
	}
	return labelStyle.Render("  " + label)
}
