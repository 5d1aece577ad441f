package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

var (
	modalHeaderStyle = lipgloss.NewStyle().Foreground(widgets.ColorBlue).Bold(true)
	modalStatusStyle = lipgloss.NewStyle().Foreground(widgets.ColorGray)
	modalBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(widgets.ColorBlue)
)

// renderModalStatusBar renders the key hints at the bottom of a modal.
func renderModalStatusBar(bindings ...key.Binding) string {
	return modalStatusStyle.Render(bindingHints(bindings))
}

func bindingHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " | ")
}

// renderModalFrame draws the outer border around body and centers it.
func renderModalFrame(body string, modalWidth, modalHeight, width, height int) string {
	framed := modalBorderStyle.
		Width(max(modalWidth, 10)).
		Height(max(modalHeight, 3)).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, framed)
}
