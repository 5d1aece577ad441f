// Package cwmtest provides recording fakes and shared conformance checks
// for code built on package cwm.
package cwmtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// Widget is a leaf widget recording every lifecycle call it receives.
type Widget struct {
	Name      string
	Valid     bool
	HelpText  string
	Reply     cwm.Event
	InitErr   error
	StoreErr  error
	HandleErr error

	InitCalls     int
	StoreCalls    int
	ValidateCalls int
	Events        []cwm.Event

	focused bool
	// Log, when set, receives "<name>.<op>" for every call so tests can
	// assert ordering across widgets.
	Log *[]string
}

// NewWidget returns a valid widget with the given id.
func NewWidget(id string) *Widget {
	return &Widget{Name: id, Valid: true}
}

func (w *Widget) ID() string { return w.Name }

func (w *Widget) Init() error {
	w.InitCalls++
	w.record("init")
	return w.InitErr
}

func (w *Widget) Handle(ev cwm.Event) (cwm.Event, error) {
	w.Events = append(w.Events, ev)
	w.record("handle")
	return w.Reply, w.HandleErr
}

func (w *Widget) Store() error {
	w.StoreCalls++
	w.record("store")
	return w.StoreErr
}

func (w *Widget) Validate() bool {
	w.ValidateCalls++
	w.record("validate")
	return w.Valid
}

func (w *Widget) Help() string { return w.HelpText }

func (w *Widget) Focus()        { w.focused = true }
func (w *Widget) Blur()         { w.focused = false }
func (w *Widget) Focused() bool { return w.focused }

func (w *Widget) View(width, height int) string { return w.Name }

func (w *Widget) record(op string) {
	if w.Log != nil {
		*w.Log = append(*w.Log, w.Name+"."+op)
	}
}

// Reset clears the recorded calls.
func (w *Widget) Reset() {
	w.InitCalls, w.StoreCalls, w.ValidateCalls = 0, 0, 0
	w.Events = nil
}

// Event is an event addressed to one widget.
type Event struct {
	Target string
	Value  string
}

func (e Event) TargetID() string { return e.Target }

// Sink records every page the pager marks.
type Sink struct {
	Marked []string
}

func (s *Sink) MarkPage(p cwm.Page) {
	s.Marked = append(s.Marked, p.ID())
}

// Page is a numbered page with a single recording widget as contents.
type Page struct {
	*cwm.BasePage
	Widget *Widget
}

// NewPage returns page n with id "pageN" and label "Page N".
func NewPage(n int) *Page {
	w := NewWidget(fmt.Sprintf("empty%d", n))
	return &Page{
		BasePage: cwm.NewPage(fmt.Sprintf("page%d", n), fmt.Sprintf("Page %d", n), w),
		Widget:   w,
	}
}

// Pages returns pages 1..n as cwm.Page values.
func Pages(n int) ([]*Page, []cwm.Page) {
	typed := make([]*Page, n)
	pages := make([]cwm.Page, n)
	for i := range typed {
		typed[i] = NewPage(i + 1)
		pages[i] = typed[i]
	}
	return typed, pages
}

// CustomWidgetContract checks the behaviour every custom widget shares:
// a stable id, idempotent Init, help and validation that do not fail, and
// targeted events for unknown widgets that are dropped.
func CustomWidgetContract(t *testing.T, w cwm.Widget) {
	t.Helper()

	id := w.ID()
	require.NotEmpty(t, id, "widget id")

	require.NoError(t, w.Init())
	require.NoError(t, w.Init(), "re-running Init")
	assert.Equal(t, id, w.ID(), "id changed after Init")

	assert.NotPanics(t, func() { _ = w.Help() })
	assert.NotPanics(t, func() { _ = w.Validate() })

	reply, err := w.Handle(Event{Target: "cwmtest-no-such-widget"})
	require.NoError(t, err)
	assert.Nil(t, reply, "event for an unknown widget should be dropped")

	require.NoError(t, w.Store())
}

// PagerContract checks an already constructed pager: Init activates and
// marks a registered page, every page can be reached, and unknown ids fail
// without changing the active page.
func PagerContract(t *testing.T, p *cwm.Pager) {
	t.Helper()

	require.NoError(t, p.Init())
	current := p.CurrentPage()
	require.NotNil(t, current, "no active page after Init")
	_, registered := p.Page(current.ID())
	assert.True(t, registered, "active page %q is not registered", current.ID())
	assert.NotNil(t, p.Contents(), "contents after Init")

	for _, pg := range p.Pages() {
		_, err := p.SwitchPage(pg.ID())
		require.NoError(t, err, "switching to %q", pg.ID())
		if p.Policy() == cwm.LeaveAlways {
			assert.Equal(t, pg.ID(), p.CurrentPage().ID())
		}
	}

	before := p.CurrentPage().ID()
	_, err := p.SwitchPage("cwmtest-missing")
	require.ErrorIs(t, err, cwm.ErrPageNotFound)
	assert.Equal(t, before, p.CurrentPage().ID(), "failed switch changed the active page")
}
