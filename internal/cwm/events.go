package cwm

// Navigation is implemented by events asking the pager to switch pages.
type Navigation interface {
	PageID() string
}

// Targeted is implemented by events addressed to a single widget.
type Targeted interface {
	TargetID() string
}

// PageNav requests a switch to the page with the given id.
type PageNav struct {
	Page string
}

func (n PageNav) PageID() string { return n.Page }

// NavigateTo returns a navigation event for the page id.
func NavigateTo(id string) PageNav {
	return PageNav{Page: id}
}

// PageChanged is returned by Pager.Handle after a successful switch.
// Callers re-fetch Pager.Contents when they see it.
type PageChanged struct {
	From string
	To   string
}

// LeaveBlocked is returned by Pager.Handle when the departure policy kept
// the current page active because its input is invalid.
type LeaveBlocked struct {
	Page   string
	Target string
}
