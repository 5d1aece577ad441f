// Package widgets holds the Bubble Tea widgets the setup pages are built
// from. Every widget implements cwm.Widget and cwm.Viewer; interactive
// ones also implement cwm.Focusable.
//
// Widgets edit the model through getter and setter functions: Init copies
// the model value into the widget, Store copies it back.
package widgets
