package cwm

import "strings"

// CustomWidget is a widget that owns an ordered list of children and
// forwards the lifecycle into them.
type CustomWidget struct {
	id           string
	children     []Widget
	focus        int // index into children, -1 when nothing is focused
	defaultFocus string
}

// NewCustomWidget creates a container for the given children. Children keep
// their declared order for every lifecycle call.
func NewCustomWidget(id string, children ...Widget) *CustomWidget {
	return &CustomWidget{id: id, children: children, focus: -1}
}

func (c *CustomWidget) ID() string { return c.id }

// Children returns the direct children in declared order.
func (c *CustomWidget) Children() []Widget { return c.children }

// SetDefaultFocus names the child focused after Init. The id may also name a
// widget nested inside a child.
func (c *CustomWidget) SetDefaultFocus(id string) { c.defaultFocus = id }

// DefaultFocus returns the configured default focus id.
func (c *CustomWidget) DefaultFocus() string { return c.defaultFocus }

// Init initializes every child in declared order. Focus is left alone; the
// owning page places it once the whole tree is initialized.
func (c *CustomWidget) Init() error {
	for _, child := range c.children {
		if err := child.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Handle routes targeted events to the child owning the target and every
// other event to the focused child. The child's result is returned as is.
func (c *CustomWidget) Handle(ev Event) (Event, error) {
	if t, ok := ev.(Targeted); ok {
		for _, child := range c.children {
			if Find(child, t.TargetID()) != nil {
				return child.Handle(ev)
			}
		}
		return nil, nil
	}
	if child := c.FocusedChild(); child != nil {
		return child.Handle(ev)
	}
	return nil, nil
}

// Store stores every child in declared order.
func (c *CustomWidget) Store() error {
	for _, child := range c.children {
		if err := child.Store(); err != nil {
			return err
		}
	}
	return nil
}

// Validate asks every child, even after one has failed, so each of them can
// show its own error.
func (c *CustomWidget) Validate() bool {
	valid := true
	for _, child := range c.children {
		if !child.Validate() {
			valid = false
		}
	}
	return valid
}

// Help concatenates the children's help texts in declared order.
func (c *CustomWidget) Help() string {
	var b strings.Builder
	for _, child := range c.children {
		b.WriteString(child.Help())
	}
	return b.String()
}

// FocusedChild returns the direct child holding focus, or nil.
func (c *CustomWidget) FocusedChild() Widget {
	if c.focus < 0 || c.focus >= len(c.children) {
		return nil
	}
	return c.children[c.focus]
}

// Focus gives focus to the default-focus widget, or to the first focusable
// child when no default is set.
func (c *CustomWidget) Focus() {
	if c.defaultFocus != "" && c.FocusWidget(c.defaultFocus) {
		return
	}
	for i, child := range c.children {
		if canFocus(child) {
			c.setFocus(i)
			return
		}
	}
}

// FocusWidget moves focus to the widget with the given id anywhere in the
// subtree. It returns false when that widget cannot take focus.
func (c *CustomWidget) FocusWidget(id string) bool {
	for i, child := range c.children {
		if Find(child, id) == nil {
			continue
		}
		if !canFocus(child) {
			return false
		}
		c.setFocus(i)
		if child.ID() != id {
			if inner, ok := child.(widgetFocuser); ok {
				return inner.FocusWidget(id)
			}
		}
		return true
	}
	return false
}

// CanFocus reports whether any child can take focus.
func (c *CustomWidget) CanFocus() bool {
	for _, child := range c.children {
		if canFocus(child) {
			return true
		}
	}
	return false
}

// Blur removes focus from the focused child.
func (c *CustomWidget) Blur() {
	if f, ok := c.FocusedChild().(Focusable); ok {
		f.Blur()
	}
	c.focus = -1
}

// Focused reports whether one of the children holds focus.
func (c *CustomWidget) Focused() bool { return c.FocusedChild() != nil }

// FocusNext moves focus forward, descending into nested cyclers first.
// It returns false when there is no further focusable child.
func (c *CustomWidget) FocusNext() bool {
	if fc, ok := c.FocusedChild().(FocusCycler); ok && fc.FocusNext() {
		return true
	}
	for i := c.focus + 1; i < len(c.children); i++ {
		if canFocus(c.children[i]) {
			c.setFocus(i)
			return true
		}
	}
	return false
}

// FocusPrev moves focus backwards. It returns false when there is no
// earlier focusable child.
func (c *CustomWidget) FocusPrev() bool {
	if fc, ok := c.FocusedChild().(FocusCycler); ok && fc.FocusPrev() {
		return true
	}
	start := c.focus - 1
	if c.focus < 0 {
		start = len(c.children) - 1
	}
	for i := start; i >= 0; i-- {
		if canFocus(c.children[i]) {
			c.setFocus(i)
			return true
		}
	}
	return false
}

// FocusFirst resets focus to the first focusable child.
func (c *CustomWidget) FocusFirst() {
	c.Blur()
	for i, child := range c.children {
		if canFocus(child) {
			c.setFocus(i)
			return
		}
	}
}

func (c *CustomWidget) setFocus(i int) {
	if i == c.focus {
		if f, ok := c.children[i].(Focusable); ok && !f.Focused() {
			f.Focus()
		}
		return
	}
	if f, ok := c.FocusedChild().(Focusable); ok {
		f.Blur()
	}
	c.focus = i
	if f, ok := c.children[i].(Focusable); ok {
		f.Focus()
	}
}

type widgetFocuser interface {
	FocusWidget(id string) bool
}

func canFocus(w Widget) bool {
	if cf, ok := w.(interface{ CanFocus() bool }); ok {
		return cf.CanFocus()
	}
	_, ok := w.(Focusable)
	return ok
}
