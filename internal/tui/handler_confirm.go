package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal asks a yes/no question. onYes runs when the user confirms.
type ConfirmModal struct {
	id       string
	question string
	keys     KeyMap
	onYes    func() tea.Cmd
}

func NewConfirmModal(id, question string, keys KeyMap, onYes func() tea.Cmd) *ConfirmModal {
	return &ConfirmModal{id: id, question: question, keys: keys, onYes: onYes}
}

func (c *ConfirmModal) ID() string { return c.id }

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch {
	case key.Matches(km, c.keys.ForceQuit):
		return true, tea.Quit
	case key.Matches(km, c.keys.Confirm):
		if c.onYes == nil {
			return true, nil
		}
		return true, c.onYes()
	case key.Matches(km, c.keys.Cancel):
		return true, nil
	}
	return false, nil
}

func (c *ConfirmModal) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		modalHeaderStyle.Render(c.question),
		"",
		renderModalStatusBar(c.keys.Confirm, c.keys.Cancel),
	)
	w := max(lipgloss.Width(body)+4, 30)
	return renderModalFrame(body, w, 5, width, height)
}
