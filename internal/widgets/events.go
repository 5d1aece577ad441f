package widgets

// SetValue sets the value of the widget with the given id from its text
// form. Unattended setup drives the pages with it.
type SetValue struct {
	Widget string
	Value  string
}

func (e SetValue) TargetID() string { return e.Widget }

// Changed is returned by a widget whose value the user changed, so the
// enclosing page can react.
type Changed struct {
	Widget string
	Value  string
}
