package cwm

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// NavigationSink keeps external navigation chrome (a menu, tree or tab
// strip) in sync with the active page. The pager calls MarkPage after every
// successful transition.
type NavigationSink interface {
	MarkPage(p Page)
}

// NavigationSinkFunc adapts a function to NavigationSink.
type NavigationSinkFunc func(p Page)

func (f NavigationSinkFunc) MarkPage(p Page) { f(p) }

// NopSink is the sink of a pager that shows no navigation chrome.
var NopSink NavigationSink = NavigationSinkFunc(func(Page) {})

// DeparturePolicy decides whether invalid input keeps the user on a page.
type DeparturePolicy int

const (
	// LeaveAlways switches pages regardless of validation, which allows
	// saving drafts at any step.
	LeaveAlways DeparturePolicy = iota
	// LeaveWhenValid blocks navigation while the current page is invalid.
	LeaveWhenValid
)

func (p DeparturePolicy) String() string {
	switch p {
	case LeaveAlways:
		return "always"
	case LeaveWhenValid:
		return "valid"
	default:
		return fmt.Sprintf("DeparturePolicy(%d)", int(p))
	}
}

// ParseDeparturePolicy parses "always" or "valid".
func ParseDeparturePolicy(s string) (DeparturePolicy, error) {
	switch s {
	case "", "always":
		return LeaveAlways, nil
	case "valid":
		return LeaveWhenValid, nil
	}
	return LeaveAlways, fmt.Errorf("cwm: unknown departure policy %q", s)
}

// Option configures a Pager.
type Option func(*Pager)

// WithDeparturePolicy sets how invalid input affects navigation.
func WithDeparturePolicy(policy DeparturePolicy) Option {
	return func(p *Pager) { p.policy = policy }
}

// WithInitialPage activates the page with the given id on Init instead of
// the first page.
func WithInitialPage(id string) Option {
	return func(p *Pager) { p.initial = id }
}

// WithReinitOnActivate re-runs Init every time a page becomes active.
func WithReinitOnActivate() Option {
	return func(p *Pager) { p.reinit = true }
}

// WithLogger sets the logger used for navigation tracing.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pager owns an ordered set of pages and routes every lifecycle call to the
// single active one. It is not safe for concurrent use; the event loop
// driving it is expected to be single-threaded.
type Pager struct {
	id      string
	pages   []Page
	byID    map[string]Page
	current Page
	sink    NavigationSink

	policy    DeparturePolicy
	initial   string
	reinit    bool
	switching bool
	logger    *log.Logger
}

// NewPager creates a pager over pages, in display order. Page ids must be
// unique.
func NewPager(id string, sink NavigationSink, pages []Page, opts ...Option) (*Pager, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	byID := make(map[string]Page, len(pages))
	for _, pg := range pages {
		if _, exists := byID[pg.ID()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePage, pg.ID())
		}
		byID[pg.ID()] = pg
	}

	p := &Pager{
		id:     id,
		pages:  append([]Page(nil), pages...),
		byID:   byID,
		sink:   sink,
		logger: log.Default().WithPrefix("pager"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.initial != "" {
		if _, ok := byID[p.initial]; !ok {
			return nil, fmt.Errorf("%w: initial page %q", ErrPageNotFound, p.initial)
		}
	}
	return p, nil
}

func (p *Pager) ID() string { return p.id }

// Pages returns the pages in display order.
func (p *Pager) Pages() []Page {
	return append([]Page(nil), p.pages...)
}

// Page returns the page registered under id.
func (p *Pager) Page(id string) (Page, bool) {
	pg, ok := p.byID[id]
	return pg, ok
}

// CurrentPage returns the active page, or nil before Init.
func (p *Pager) CurrentPage() Page { return p.current }

// Policy returns the departure policy.
func (p *Pager) Policy() DeparturePolicy { return p.policy }

// Init activates the initial page, initializes it and marks it. No other
// page is initialized; they are initialized when first shown. Once a page
// is active Init does nothing, and during a switch it fails with
// ErrReentrantSwitch.
func (p *Pager) Init() error {
	if p.switching {
		return ErrReentrantSwitch
	}
	if p.current != nil {
		return nil
	}

	target := p.pages[0]
	if p.initial != "" {
		target = p.byID[p.initial]
	}

	if err := target.Init(); err != nil {
		return err
	}
	p.current = target
	p.sink.MarkPage(target)
	p.logger.Debug("pager initialized", "pager", p.id, "page", target.ID())
	return nil
}

// Contents returns the widget tree of the active page.
func (p *Pager) Contents() Widget {
	if p.current == nil {
		return nil
	}
	return p.current.Contents()
}

// SwitchPage makes the page with the given id active. It reports whether the
// active page changed: switching to the active page is a no-op, and the
// LeaveWhenValid policy keeps an invalid page active. Unknown ids are an
// error wrapping ErrPageNotFound. Callers re-fetch Contents after a switch.
func (p *Pager) SwitchPage(id string) (bool, error) {
	if p.switching {
		return false, ErrReentrantSwitch
	}

	target, ok := p.byID[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrPageNotFound, id)
	}
	if p.current != nil && p.current.ID() == id {
		return false, nil
	}

	p.switching = true
	defer func() { p.switching = false }()

	prev := p.current
	if prev != nil {
		if p.policy == LeaveWhenValid && !prev.Validate() {
			p.logger.Debug("leaving invalid page blocked", "page", prev.ID(), "target", id)
			return false, nil
		}
		if storeOnLeave(prev) {
			if err := prev.Store(); err != nil {
				return false, err
			}
		}
	}

	p.current = target
	if p.reinit || !target.Initialized() {
		if err := target.Init(); err != nil {
			p.current = prev
			return false, err
		}
	}
	p.sink.MarkPage(target)

	p.logger.Debug("switched page", "pager", p.id, "from", pageID(prev), "to", target.ID())
	return true, nil
}

// Handle performs navigation events and forwards every other event to the
// active page unchanged.
func (p *Pager) Handle(ev Event) (Event, error) {
	if nav, ok := ev.(Navigation); ok {
		from := pageID(p.current)
		switched, err := p.SwitchPage(nav.PageID())
		if err != nil {
			return nil, err
		}
		if switched {
			return PageChanged{From: from, To: p.current.ID()}, nil
		}
		if p.current != nil && p.current.ID() != nav.PageID() {
			return LeaveBlocked{Page: p.current.ID(), Target: nav.PageID()}, nil
		}
		return nil, nil
	}

	if p.current == nil {
		return nil, ErrNotInitialized
	}
	return p.current.Handle(ev)
}

// Store stores the active page only; pages that are not active hold no live
// input.
func (p *Pager) Store() error {
	if p.current == nil {
		return ErrNotInitialized
	}
	return p.current.Store()
}

// Validate validates the active page only.
func (p *Pager) Validate() bool {
	if p.current == nil {
		return false
	}
	return p.current.Validate()
}

func (p *Pager) Help() string {
	if p.current == nil {
		return ""
	}
	return p.current.Help()
}

// InvalidPages validates every page that has been initialized and returns
// the failing ones in display order. All of them are asked, so each can
// show its errors.
func (p *Pager) InvalidPages() []Page {
	var invalid []Page
	for _, pg := range p.pages {
		if !pg.Initialized() {
			continue
		}
		if !pg.Validate() {
			invalid = append(invalid, pg)
		}
	}
	return invalid
}

// NextPageID returns the id of the page after the active one.
func (p *Pager) NextPageID() (string, bool) {
	return p.neighbour(1)
}

// PrevPageID returns the id of the page before the active one.
func (p *Pager) PrevPageID() (string, bool) {
	return p.neighbour(-1)
}

// Index returns the display position of the active page, or -1.
func (p *Pager) Index() int {
	if p.current == nil {
		return -1
	}
	for i, pg := range p.pages {
		if pg.ID() == p.current.ID() {
			return i
		}
	}
	return -1
}

func (p *Pager) neighbour(delta int) (string, bool) {
	i := p.Index()
	if i < 0 {
		return "", false
	}
	j := i + delta
	if j < 0 || j >= len(p.pages) {
		return "", false
	}
	return p.pages[j].ID(), true
}

func storeOnLeave(pg Page) bool {
	if ls, ok := pg.(LeaveStorer); ok {
		return ls.StoreOnLeave()
	}
	return true
}

func pageID(pg Page) string {
	if pg == nil {
		return ""
	}
	return pg.ID()
}
