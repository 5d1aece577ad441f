package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the wizard's global key bindings with built-in help text.
// Keys not bound here go to the focused widget.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Finish    key.Binding

	// Navigation
	NextPage  key.Binding
	PrevPage  key.Binding
	NextField key.Binding
	PrevField key.Binding

	// Modals
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "abort"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/F1", "help"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f10", "ctrl+s"),
			key.WithHelp("F10/ctrl+s", "finish"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("ctrl+n", "f8"),
			key.WithHelp("ctrl+n/F8", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("ctrl+p", "f9"),
			key.WithHelp("ctrl+p/F9", "previous page"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "no"),
		),
	}
}

// shortHelp lists the bindings shown in the status bar.
func (k KeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.NextPage, k.PrevPage, k.Finish, k.Help, k.Quit}
}

// fullHelp lists the bindings shown in the help modal.
func (k KeyMap) fullHelp() []key.Binding {
	return []key.Binding{
		k.NextField, k.PrevField, k.NextPage, k.PrevPage,
		k.Finish, k.Help, k.Quit, k.ForceQuit,
	}
}
