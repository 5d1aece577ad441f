package tui

import (
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

type wizard struct {
	name     string
	verbose  bool
	accepted bool

	input  *widgets.InputField
	toggle *widgets.CheckBox
	accept *widgets.CheckBox
}

func newWizard(t *testing.T, nav Navigator, policy cwm.DeparturePolicy, finish func() error) (*App, *wizard) {
	t.Helper()
	w := &wizard{name: "lotus"}
	w.input = widgets.NewInputField("name", "Name",
		func() string { return w.name }, func(s string) { w.name = s }).
		WithHelp("The service name.")
	w.toggle = widgets.NewCheckBox("verbose", "Verbose",
		func() bool { return w.verbose }, func(b bool) { w.verbose = b })
	w.accept = widgets.NewCheckBox("accept", "Accept",
		func() bool { return w.accepted }, func(b bool) { w.accepted = b }).Required()

	pages := []cwm.Page{
		cwm.NewPage("one", "One", widgets.NewVBox("one-box", w.input, w.toggle)),
		cwm.NewPage("two", "Two", widgets.NewVBox("two-box", w.accept)),
		cwm.NewPage("three", "Three", widgets.NewText("done", "All set.")),
	}
	logger := log.New(io.Discard)
	pager, err := cwm.NewPager("wizard", nav, pages,
		cwm.WithDeparturePolicy(policy), cwm.WithLogger(logger))
	require.NoError(t, err)

	app := NewApp(pager, nav, Options{Title: "Test", Finish: finish, Logger: logger})
	require.Nil(t, app.Init())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, w
}

func press(a *App, k tea.KeyType) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeRunes(a *App, s string) {
	for _, r := range s {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_InitMarksFirstPage(t *testing.T) {
	nav := NewSidebar()
	app, w := newWizard(t, nav, cwm.LeaveAlways, nil)

	assert.Equal(t, "one", nav.Active())
	assert.Equal(t, []string{"one"}, app.Visited())
	assert.True(t, w.input.Focused(), "first input gets focus")
}

func TestApp_InitErrorQuits(t *testing.T) {
	boom := errors.New("boom")
	nav := NewSidebar()
	bad := cwm.NewPage("bad", "Bad", failingWidget{err: boom})
	pager, err := cwm.NewPager("wizard", nav, []cwm.Page{bad}, cwm.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	app := NewApp(pager, nav, Options{Logger: log.New(io.Discard)})
	assert.True(t, isQuit(t, app.Init()))
	assert.ErrorIs(t, app.Err(), boom)
}

func TestApp_PageKeysNavigate(t *testing.T) {
	nav := NewTabStrip()
	app, _ := newWizard(t, nav, cwm.LeaveAlways, nil)

	press(app, tea.KeyCtrlN)
	assert.Equal(t, "two", nav.Active())
	press(app, tea.KeyCtrlN)
	assert.Equal(t, "three", nav.Active())
	press(app, tea.KeyCtrlN)
	assert.Equal(t, "three", nav.Active(), "no page after the last")

	press(app, tea.KeyCtrlP)
	assert.Equal(t, "two", nav.Active())
	assert.Equal(t, []string{"one", "two", "three"}, app.Visited())
}

func TestApp_StoresOnLeave(t *testing.T) {
	app, w := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	typeRunes(app, "-x")
	press(app, tea.KeyCtrlN)

	assert.Equal(t, "lotus-x", w.name)
}

func TestApp_LeaveBlockedShowsStatus(t *testing.T) {
	nav := NewSidebar()
	app, _ := newWizard(t, nav, cwm.LeaveWhenValid, nil)

	press(app, tea.KeyCtrlN)
	require.Equal(t, "two", nav.Active())

	press(app, tea.KeyCtrlN)
	assert.Equal(t, "two", nav.Active())
	assert.Contains(t, app.Status(), "Two")
}

func TestApp_QTypesIntoFocusedInput(t *testing.T) {
	app, w := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	typeRunes(app, "q")

	assert.Nil(t, app.topModal())
	assert.Equal(t, "lotusq", w.input.Value())
}

func TestApp_EscConfirmsAbort(t *testing.T) {
	app, _ := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	press(app, tea.KeyEsc)
	require.NotNil(t, app.topModal())
	assert.Equal(t, "abort", app.topModal().ID())

	press(app, tea.KeyEsc)
	assert.Nil(t, app.topModal(), "esc cancels the dialog")
	assert.False(t, app.Aborted())

	press(app, tea.KeyEsc)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.True(t, isQuit(t, cmd))
	assert.True(t, app.Aborted())
}

func TestApp_ForceQuit(t *testing.T) {
	app, _ := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	assert.True(t, isQuit(t, press(app, tea.KeyCtrlC)))
	assert.True(t, app.Aborted())
	assert.False(t, app.Finished())
}

func TestApp_HelpShowsPageHelp(t *testing.T) {
	app, _ := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	press(app, tea.KeyF1)
	help, ok := app.topModal().(*HelpModal)
	require.True(t, ok)
	assert.Contains(t, help.Markdown(), "The service name.")
	assert.Contains(t, help.Markdown(), "next page")
	assert.NotEmpty(t, app.View())

	press(app, tea.KeyEsc)
	assert.Nil(t, app.topModal())
}

func TestApp_TabCyclesFocusWithWrap(t *testing.T) {
	app, w := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)

	press(app, tea.KeyTab)
	assert.True(t, w.toggle.Focused())
	assert.False(t, w.input.Focused())

	press(app, tea.KeyTab)
	assert.True(t, w.input.Focused(), "focus wraps to the first field")

	press(app, tea.KeyShiftTab)
	assert.True(t, w.toggle.Focused(), "focus wraps to the last field")
}

func TestApp_FinishSendsUserToInvalidPage(t *testing.T) {
	called := false
	nav := NewSidebar()
	app, _ := newWizard(t, nav, cwm.LeaveAlways, func() error {
		called = true
		return nil
	})

	press(app, tea.KeyCtrlN)
	press(app, tea.KeyCtrlN)
	require.Equal(t, "three", nav.Active())

	cmd := press(app, tea.KeyF10)
	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Equal(t, "two", nav.Active())
	assert.Contains(t, app.Status(), "Two")
}

func TestApp_FinishRunsCallbackAndQuits(t *testing.T) {
	called := false
	nav := NewSidebar()
	app, w := newWizard(t, nav, cwm.LeaveAlways, func() error {
		called = true
		return nil
	})

	press(app, tea.KeyCtrlN)
	_, _ = app.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	cmd := press(app, tea.KeyCtrlS)

	assert.True(t, isQuit(t, cmd))
	assert.True(t, called)
	assert.True(t, app.Finished())
	assert.True(t, w.accepted, "active page stored before finishing")
}

func TestApp_FinishErrorKeepsWizardOpen(t *testing.T) {
	app, _ := newWizard(t, NewSidebar(), cwm.LeaveAlways, func() error {
		return errors.New("disk full")
	})

	cmd := press(app, tea.KeyF10)
	assert.Nil(t, cmd)
	assert.False(t, app.Finished())
	assert.Contains(t, app.Status(), "disk full")
}

func TestApp_SidebarClickNavigates(t *testing.T) {
	nav := NewSidebar()
	app, _ := newWizard(t, nav, cwm.LeaveAlways, nil)

	app.Update(tea.MouseMsg{
		X:      3,
		Y:      headerHeight + sidebarHeaderRows + 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, "three", nav.Active())
}

func TestApp_ViewRendersChrome(t *testing.T) {
	for _, kind := range []string{NavSidebar, NavTabs, NavSteps} {
		t.Run(kind, func(t *testing.T) {
			nav, err := NewNavigator(kind)
			require.NoError(t, err)
			app, _ := newWizard(t, nav, cwm.LeaveAlways, nil)

			view := app.View()
			assert.Contains(t, view, "Test - One")
			assert.Contains(t, view, "Name")
		})
	}
}

func TestApp_ViewTooSmall(t *testing.T) {
	app, _ := newWizard(t, NewSidebar(), cwm.LeaveAlways, nil)
	app.Update(tea.WindowSizeMsg{Width: 20, Height: 5})

	assert.Contains(t, app.View(), "Terminal too small")
}

type failingWidget struct{ err error }

func (f failingWidget) ID() string                          { return "failing" }
func (f failingWidget) Init() error                         { return f.err }
func (f failingWidget) Handle(cwm.Event) (cwm.Event, error) { return nil, nil }
func (f failingWidget) Store() error                        { return nil }
func (f failingWidget) Validate() bool                      { return true }
func (f failingWidget) Help() string                        { return "" }
