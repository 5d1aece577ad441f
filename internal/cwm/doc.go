// Package cwm implements composable widget pages and the pager that switches
// between them.
//
// A Page owns a widget subtree and forwards every lifecycle call (Init,
// Handle, Store, Validate, Help) into it. A Pager owns an ordered set of
// pages, keeps exactly one of them active and routes lifecycle calls to it.
// Navigation chrome (menus, tab strips, step indicators) is kept in sync
// through a NavigationSink.
//
// Nothing in this package renders anything. Rendering and key handling live
// in the widgets and tui packages.
package cwm
