package cwm

// Page is a navigable unit of UI: a widget with a stable id, a display
// label and a widget subtree of its own.
type Page interface {
	Widget
	Label() string
	Contents() Widget
	Initialized() bool
}

// LeaveStorer is implemented by pages that decide whether the pager stores
// them before switching away.
type LeaveStorer interface {
	StoreOnLeave() bool
}

// BasePage is the default Page. Embed it to build pages that intercept
// events or derive their label from state.
type BasePage struct {
	id          string
	label       string
	contents    Widget
	initialized bool
	keepOnLeave bool
}

// PageOption configures a BasePage.
type PageOption func(*BasePage)

// WithoutStoreOnLeave keeps the pager from storing the page when the user
// navigates away from it.
func WithoutStoreOnLeave() PageOption {
	return func(p *BasePage) { p.keepOnLeave = false }
}

// NewPage creates a page owning contents.
func NewPage(id, label string, contents Widget, opts ...PageOption) *BasePage {
	p := &BasePage{
		id:          id,
		label:       label,
		contents:    contents,
		keepOnLeave: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *BasePage) ID() string       { return p.id }
func (p *BasePage) Label() string    { return p.label }
func (p *BasePage) Contents() Widget { return p.contents }

// SetLabel changes the label shown by navigation chrome.
func (p *BasePage) SetLabel(label string) { p.label = label }

// Initialized reports whether Init has completed at least once.
func (p *BasePage) Initialized() bool { return p.initialized }

// StoreOnLeave reports whether the pager stores the page before leaving it.
func (p *BasePage) StoreOnLeave() bool { return p.keepOnLeave }

// Init initializes the contents and places focus. Calling it again re-runs
// the initialization.
func (p *BasePage) Init() error {
	if p.contents == nil {
		p.initialized = true
		return nil
	}
	if err := p.contents.Init(); err != nil {
		return err
	}
	if f, ok := p.contents.(Focusable); ok && !f.Focused() {
		f.Focus()
	}
	p.initialized = true
	return nil
}

func (p *BasePage) Handle(ev Event) (Event, error) {
	if p.contents == nil {
		return nil, nil
	}
	return p.contents.Handle(ev)
}

func (p *BasePage) Store() error {
	if p.contents == nil {
		return nil
	}
	return p.contents.Store()
}

func (p *BasePage) Validate() bool {
	if p.contents == nil {
		return true
	}
	return p.contents.Validate()
}

func (p *BasePage) Help() string {
	if p.contents == nil {
		return ""
	}
	return p.contents.Help()
}

// Children exposes the contents so Find can look into the page.
func (p *BasePage) Children() []Widget {
	if p.contents == nil {
		return nil
	}
	return []Widget{p.contents}
}

// FocusNext moves focus forward inside the contents.
func (p *BasePage) FocusNext() bool {
	if fc, ok := p.contents.(FocusCycler); ok {
		return fc.FocusNext()
	}
	return false
}

// FocusPrev moves focus backwards inside the contents.
func (p *BasePage) FocusPrev() bool {
	if fc, ok := p.contents.(FocusCycler); ok {
		return fc.FocusPrev()
	}
	return false
}

// FocusFirst moves focus back to the first focusable widget.
func (p *BasePage) FocusFirst() {
	if ff, ok := p.contents.(interface{ FocusFirst() }); ok {
		ff.FocusFirst()
	}
}

// FocusLast moves focus to the last focusable widget.
func (p *BasePage) FocusLast() {
	f, ok := p.contents.(Focusable)
	if !ok {
		return
	}
	f.Blur()
	if fc, ok := p.contents.(FocusCycler); ok {
		fc.FocusPrev()
	}
}

// View renders the contents when they can render themselves.
func (p *BasePage) View(width, height int) string {
	if v, ok := p.contents.(Viewer); ok {
		return v.View(width, height)
	}
	return ""
}
