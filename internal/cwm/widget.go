package cwm

// Event is an opaque UI event. Bubble Tea messages are events.
type Event = any

// Widget is the smallest unit taking part in the page lifecycle.
type Widget interface {
	ID() string
	// Init populates the widget's displayed state from the model it edits.
	Init() error
	// Handle processes one event. A nil result means nothing else has to
	// happen; a non-nil result is a replacement event for the caller.
	Handle(ev Event) (Event, error)
	// Store writes the widget's state back into the model.
	Store() error
	// Validate reports whether the current input is acceptable.
	Validate() bool
	Help() string
}

// Viewer is implemented by widgets that can render themselves.
type Viewer interface {
	View(width, height int) string
}

// Focusable is implemented by widgets that accept keyboard focus.
type Focusable interface {
	Focus()
	Blur()
	Focused() bool
}

// FocusCycler moves focus between the focusable widgets it contains.
// Both methods return false when focus would leave the cycler.
type FocusCycler interface {
	FocusNext() bool
	FocusPrev() bool
}

// Container is implemented by widgets owning child widgets.
type Container interface {
	Widget
	Children() []Widget
}

// Find returns the widget with the given id in the tree rooted at root.
func Find(root Widget, id string) Widget {
	if root == nil {
		return nil
	}
	if root.ID() == id {
		return root
	}
	c, ok := root.(Container)
	if !ok {
		return nil
	}
	for _, child := range c.Children() {
		if w := Find(child, id); w != nil {
			return w
		}
	}
	return nil
}
