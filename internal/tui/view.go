package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

const (
	headerHeight = 1
	statusHeight = 1
	minWidth     = 50
	minHeight    = 12
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(widgets.ColorWhite).Background(widgets.ColorNavy).Bold(true).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(widgets.ColorGray)
	statusErrStyle = lipgloss.NewStyle().Foreground(widgets.ColorRed).Bold(true)
)

// contentSize returns the room left for the active page.
func (a *App) contentSize() (int, int) {
	w := a.width
	h := a.height - headerHeight - statusHeight
	switch a.nav.Placement() {
	case PlaceLeft:
		w -= a.nav.Size() + 1
	case PlaceTop:
		h -= a.nav.Size()
	}
	return max(w, 1), max(h, 1)
}

// navigatorHit maps a left click to a page when it lands on the navigator.
func (a *App) navigatorHit(msg tea.MouseMsg) (string, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return "", false
	}
	x, y := msg.X, msg.Y-headerHeight
	if a.nav.Placement() == PlaceTop && y >= a.nav.Size() {
		return "", false
	}
	return a.nav.PageAt(x, y)
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return "Initializing..."
	}
	if modal := a.topModal(); modal != nil {
		return modal.View(a.width, a.height)
	}
	if a.width < minWidth || a.height < minHeight {
		return "Terminal too small. Resize to at least 50x12."
	}

	cw, ch := a.contentSize()
	page := ""
	if v, ok := a.pager.CurrentPage().(cwm.Viewer); ok {
		page = v.View(cw, ch)
	}
	page = lipgloss.NewStyle().Width(cw).Height(ch).MaxHeight(ch).Render(page)

	var body string
	switch a.nav.Placement() {
	case PlaceLeft:
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.nav.View(a.nav.Size(), ch), " ", page)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, a.nav.View(a.width, a.nav.Size()), page)
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderStatus())
}

func (a *App) renderHeader() string {
	title := a.title
	if i := a.pager.Index(); i >= 0 {
		title += " - " + pageLabel(a.pager.Pages()[i])
	}
	return titleStyle.Width(a.width).Render(title)
}

func (a *App) renderStatus() string {
	if a.status != "" {
		style := statusStyle
		if a.statusErr {
			style = statusErrStyle
		}
		return style.Width(a.width).MaxHeight(1).Render(a.status)
	}
	return statusStyle.Width(a.width).MaxHeight(1).Render(bindingHints(a.keys.shortHelp()))
}
