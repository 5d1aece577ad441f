package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpModal shows the active page's help and the key bindings.
type HelpModal struct {
	title    string
	markdown string
	keys     KeyMap
	reverse  bool

	viewport    viewport.Model
	renderedFor int
}

func NewHelpModal(title, markdown string, keys KeyMap, reverseScrollWheel bool) *HelpModal {
	return &HelpModal{
		title:       title,
		markdown:    markdown,
		keys:        keys,
		reverse:     reverseScrollWheel,
		viewport:    viewport.New(80, 20),
		renderedFor: -1,
	}
}

func (h *HelpModal) ID() string { return "help" }

// Markdown returns the help source before rendering.
func (h *HelpModal) Markdown() string { return h.markdown }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, h.keys.Help) || msg.String() == "esc" || msg.String() == "q" {
			return true, nil
		}
		switch msg.String() {
		case "up", "k":
			h.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			h.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			h.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			h.viewport.HalfPageDown()
			return false, nil
		}
		var cmd tea.Cmd
		h.viewport, cmd = h.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if h.reverse {
				h.viewport.ScrollDown(1)
			} else {
				h.viewport.ScrollUp(1)
			}
		case tea.MouseButtonWheelDown:
			if h.reverse {
				h.viewport.ScrollUp(1)
			} else {
				h.viewport.ScrollDown(1)
			}
		}
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	return h.render(width, height)
}
