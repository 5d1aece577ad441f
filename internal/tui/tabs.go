package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

var (
	activeTabStyle   = lipgloss.NewStyle().Foreground(widgets.ColorWhite).Background(widgets.ColorBlue).Bold(true)
	visitedTabStyle  = lipgloss.NewStyle().Foreground(widgets.ColorWhite)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(widgets.ColorGray)
	ruleStyle        = lipgloss.NewStyle().Foreground(widgets.ColorGray)
)

const tabSeparator = "│"

// TabStrip shows the pages as a row of tabs above the page.
type TabStrip struct {
	navState
}

func NewTabStrip() *TabStrip { return &TabStrip{} }

func (t *TabStrip) Placement() Placement { return PlaceTop }
func (t *TabStrip) Size() int            { return 2 }

func (t *TabStrip) View(width, _ int) string {
	parts := make([]string, 0, len(t.pages)*2)
	for i, pg := range t.pages {
		if i > 0 {
			parts = append(parts, ruleStyle.Render(tabSeparator))
		}
		label := " " + pageLabel(pg) + " "
		switch {
		case pg.ID() == t.active:
			parts = append(parts, activeTabStyle.Render(label))
		case t.wasVisited(pg.ID()):
			parts = append(parts, visitedTabStyle.Render(label))
		default:
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	rule := ruleStyle.Render(strings.Repeat("─", max(width, 1)))
	return lipgloss.JoinVertical(lipgloss.Left, row, rule)
}

func (t *TabStrip) PageAt(x, y int) (string, bool) {
	if y != 0 || x < 0 {
		return "", false
	}
	start := 0
	for i, pg := range t.pages {
		if i > 0 {
			start += lipgloss.Width(tabSeparator)
		}
		end := start + lipgloss.Width(pageLabel(pg)) + 2
		if x >= start && x < end {
			return pg.ID(), true
		}
		start = end
	}
	return "", false
}

// Steps shows wizard progress: the step counter and one dot per page.
type Steps struct {
	navState
}

func NewSteps() *Steps { return &Steps{} }

func (s *Steps) Placement() Placement { return PlaceTop }
func (s *Steps) Size() int            { return 3 }

func (s *Steps) View(width, _ int) string {
	i := s.activeIndex()
	title := "Step"
	if i >= 0 {
		title = fmt.Sprintf("Step %d of %d: %s", i+1, len(s.pages), pageLabel(s.pages[i]))
	}

	var dots strings.Builder
	for j, pg := range s.pages {
		switch {
		case j == i:
			dots.WriteString(activeDotStyle.Render("●"))
		case s.wasVisited(pg.ID()):
			dots.WriteString(visitedTabStyle.Render("●"))
		default:
			dots.WriteString(inactiveTabStyle.Render("○"))
		}
		dots.WriteString(" ")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Width(max(width, 1)).Render(title),
		dots.String(),
		"",
	)
}

var activeDotStyle = lipgloss.NewStyle().Foreground(widgets.ColorBlue).Bold(true)

// PageAt maps a click on the dot row to its page. Each dot takes two
// columns.
func (s *Steps) PageAt(x, y int) (string, bool) {
	if y != 1 || x < 0 || x%2 != 0 {
		return "", false
	}
	i := x / 2
	if i >= len(s.pages) {
		return "", false
	}
	return s.pages[i].ID(), true
}
