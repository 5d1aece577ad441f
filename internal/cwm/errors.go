package cwm

import "errors"

var (
	// ErrPageNotFound means a navigation named a page the pager never
	// registered. It is a wiring bug, not a user error.
	ErrPageNotFound = errors.New("cwm: page not found")

	// ErrNoPages is returned by NewPager for an empty page list.
	ErrNoPages = errors.New("cwm: pager needs at least one page")
	// ErrDuplicatePage is returned by NewPager when two pages share an id.
	ErrDuplicatePage = errors.New("cwm: duplicate page id")
	// ErrNilSink is returned by NewPager without a navigation sink.
	ErrNilSink = errors.New("cwm: nil navigation sink")
	// ErrNotInitialized is returned by calls that need an active page
	// before Init succeeded.
	ErrNotInitialized = errors.New("cwm: pager not initialized")
	// ErrReentrantSwitch is returned by SwitchPage and Init when called
	// while a switch is still in progress, e.g. from a sink's MarkPage.
	ErrReentrantSwitch = errors.New("cwm: page switch already in progress")
)
