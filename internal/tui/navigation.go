package tui

import (
	"fmt"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// Placement says where a navigator is drawn relative to the page.
type Placement int

const (
	PlaceLeft Placement = iota
	PlaceTop
)

// Navigator is the chrome that lists the pages. The pager marks the active
// page on it after every transition.
type Navigator interface {
	cwm.NavigationSink
	SetPages(pages []cwm.Page)
	Active() string
	// Visited returns the ids of the pages marked so far, in first-visit
	// order.
	Visited() []string
	Placement() Placement
	// Size returns the navigator's width for PlaceLeft and its height for
	// PlaceTop.
	Size() int
	View(width, height int) string
	// PageAt returns the page drawn at x, y relative to the navigator's
	// top-left corner.
	PageAt(x, y int) (string, bool)
}

// Navigator kinds accepted by NewNavigator.
const (
	NavSidebar = "sidebar"
	NavTabs    = "tabs"
	NavSteps   = "steps"
)

// NewNavigator returns the navigator of the given kind.
func NewNavigator(kind string) (Navigator, error) {
	switch kind {
	case "", NavSidebar:
		return NewSidebar(), nil
	case NavTabs:
		return NewTabStrip(), nil
	case NavSteps:
		return NewSteps(), nil
	}
	return nil, fmt.Errorf("tui: unknown navigation %q", kind)
}

// navState is the bookkeeping shared by all navigators.
type navState struct {
	pages   []cwm.Page
	active  string
	visited []string
}

func (n *navState) SetPages(pages []cwm.Page) {
	n.pages = append([]cwm.Page(nil), pages...)
}

func (n *navState) MarkPage(p cwm.Page) {
	n.active = p.ID()
	for _, id := range n.visited {
		if id == p.ID() {
			return
		}
	}
	n.visited = append(n.visited, p.ID())
}

func (n *navState) Active() string { return n.active }

func (n *navState) Visited() []string {
	return append([]string(nil), n.visited...)
}

func (n *navState) wasVisited(id string) bool {
	for _, v := range n.visited {
		if v == id {
			return true
		}
	}
	return false
}

func (n *navState) activeIndex() int {
	for i, pg := range n.pages {
		if pg.ID() == n.active {
			return i
		}
	}
	return -1
}

// pageLabel reads the label at render time since pages may relabel
// themselves.
func pageLabel(pg cwm.Page) string {
	if l := pg.Label(); l != "" {
		return l
	}
	return pg.ID()
}
