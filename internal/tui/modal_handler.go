package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a dialog drawn over the wizard. While one is open it receives
// every message.
type Modal interface {
	ID() string
	// Update handles msg and reports whether the modal should close.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	View(width, height int) string
}

func (a *App) pushModal(m Modal) {
	a.modals = append(a.modals, m)
}

func (a *App) topModal() Modal {
	if len(a.modals) == 0 {
		return nil
	}
	return a.modals[len(a.modals)-1]
}

func (a *App) popModal() {
	if len(a.modals) > 0 {
		a.modals = a.modals[:len(a.modals)-1]
	}
}

// updateModal routes msg to the top modal. Window size changes still reach
// the app so the layout is current when the modal closes.
func (a *App) updateModal(msg tea.Msg) tea.Cmd {
	top := a.topModal()
	pop, cmd := top.Update(msg)
	if pop {
		a.popModal()
	}
	return cmd
}
