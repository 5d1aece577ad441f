package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

const sidebarWidth = 22

// Rows above the first page entry: top border, title, blank line.
const sidebarHeaderRows = 3

// Sidebar lists the pages as a menu on the left.
type Sidebar struct {
	navState
}

func NewSidebar() *Sidebar { return &Sidebar{} }

func (s *Sidebar) Placement() Placement { return PlaceLeft }
func (s *Sidebar) Size() int            { return sidebarWidth }

func (s *Sidebar) buildLines() []string {
	lines := make([]string, 0, len(s.pages)+2)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Steps"), "")

	maxLabelWidth := sidebarWidth - 6
	for _, pg := range s.pages {
		label := truncate(pageLabel(pg), maxLabelWidth)
		switch {
		case pg.ID() == s.active:
			lines = append(lines, lipgloss.NewStyle().Foreground(widgets.ColorBlue).Bold(true).Render("> "+label))
		case s.wasVisited(pg.ID()):
			lines = append(lines, "✓ "+label)
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(widgets.ColorGray).Render("  "+label))
		}
	}
	return lines
}

func (s *Sidebar) View(_, height int) string {
	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(max(height-2, 1)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(widgets.ColorGray).
		Padding(0, 1)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, s.buildLines()...))
}

func (s *Sidebar) PageAt(x, y int) (string, bool) {
	if x < 0 || x >= sidebarWidth {
		return "", false
	}
	i := y - sidebarHeaderRows
	if i < 0 || i >= len(s.pages) {
		return "", false
	}
	return s.pages[i].ID(), true
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 2 {
		return s
	}
	return string(r[:width-1]) + "~"
}
