package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

// Options configures an App.
type Options struct {
	Title string
	// Finish runs after the active page was stored and every visited page
	// validated. An error keeps the wizard open.
	Finish             func() error
	ReverseScrollWheel bool
	Keys               *KeyMap
	Logger             *log.Logger
}

// App is the top-level Bubble Tea model. It hosts a pager and draws the
// navigator next to the active page.
type App struct {
	pager  *cwm.Pager
	nav    Navigator
	keys   KeyMap
	modals []Modal

	title   string
	finish  func() error
	reverse bool
	logger  *log.Logger

	width  int
	height int

	status    string
	statusErr bool

	err      error
	finished bool
	aborted  bool
}

// NewApp creates the model. nav must be the sink the pager was built with
// so the chrome follows every switch.
func NewApp(pager *cwm.Pager, nav Navigator, opts Options) *App {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("tui")
	}
	title := opts.Title
	if title == "" {
		title = "Setup"
	}
	nav.SetPages(pager.Pages())
	return &App{
		pager:   pager,
		nav:     nav,
		keys:    keys,
		title:   title,
		finish:  opts.Finish,
		reverse: opts.ReverseScrollWheel,
		logger:  logger,
	}
}

// Err returns the error that ended the program, if any.
func (a *App) Err() error { return a.err }

// Finished reports whether the wizard completed through Finish.
func (a *App) Finished() bool { return a.finished }

// Aborted reports whether the user left without finishing.
func (a *App) Aborted() bool { return a.aborted }

// Status returns the status line text.
func (a *App) Status() string { return a.status }

// Visited returns the ids of the pages the user has seen.
func (a *App) Visited() []string { return a.nav.Visited() }

func (a *App) Init() tea.Cmd {
	if err := a.pager.Init(); err != nil {
		a.err = fmt.Errorf("initialize pages: %w", err)
		return tea.Quit
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
		return a, nil
	}

	if a.topModal() != nil {
		return a, a.updateModal(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		if id, ok := a.navigatorHit(msg); ok {
			return a, a.navigate(id)
		}
		return a, a.dispatch(msg)
	}
	return a, a.dispatch(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.ForceQuit):
		a.aborted = true
		return tea.Quit
	case key.Matches(msg, a.keys.Quit):
		if msg.String() == "q" && a.typing() {
			return a.dispatch(msg)
		}
		a.pushModal(NewConfirmModal("abort", "Abort setup? Changes will not be saved.", a.keys, func() tea.Cmd {
			a.aborted = true
			return tea.Quit
		}))
		return nil
	case key.Matches(msg, a.keys.Help):
		if msg.String() == "?" && a.typing() {
			return a.dispatch(msg)
		}
		a.openHelp()
		return nil
	case key.Matches(msg, a.keys.NextPage):
		if id, ok := a.pager.NextPageID(); ok {
			return a.navigate(id)
		}
		return nil
	case key.Matches(msg, a.keys.PrevPage):
		if id, ok := a.pager.PrevPageID(); ok {
			return a.navigate(id)
		}
		return nil
	case key.Matches(msg, a.keys.NextField):
		a.cycleFocus(true)
		return nil
	case key.Matches(msg, a.keys.PrevField):
		a.cycleFocus(false)
		return nil
	case key.Matches(msg, a.keys.Finish):
		return a.doFinish()
	}
	return a.dispatch(msg)
}

func (a *App) openHelp() {
	label := a.title
	if pg := a.pager.CurrentPage(); pg != nil {
		label = pageLabel(pg)
	}
	a.pushModal(NewHelpModal(label, helpMarkdown(label, a.pager.Help(), a.keys), a.keys, a.reverse))
}

// navigate asks the pager to switch to the page id.
func (a *App) navigate(id string) tea.Cmd {
	return a.dispatch(cwm.NavigateTo(id))
}

// dispatch hands ev to the pager and acts on the result.
func (a *App) dispatch(ev cwm.Event) tea.Cmd {
	out, err := a.pager.Handle(ev)
	if err != nil {
		a.setError(err)
		a.logger.Error("event failed", "page", a.currentID(), "err", err)
		return nil
	}
	return a.handleResult(out)
}

func (a *App) handleResult(out cwm.Event) tea.Cmd {
	switch out := out.(type) {
	case nil:
		return nil
	case tea.Cmd:
		return out
	case cwm.PageChanged:
		a.setStatus("")
		a.logger.Debug("page changed", "from", out.From, "to", out.To)
		return nil
	case cwm.LeaveBlocked:
		a.setError(fmt.Errorf("fix the errors on %q before leaving", a.labelOf(out.Page)))
		return nil
	case cwm.Navigation:
		return a.dispatch(out)
	case widgets.Changed:
		a.logger.Debug("value changed", "widget", out.Widget, "value", out.Value)
		return nil
	}
	a.logger.Debug("unhandled event", "page", a.currentID(), "event", fmt.Sprintf("%T", out))
	return nil
}

// cycleFocus moves focus inside the active page, wrapping around at the
// ends.
func (a *App) cycleFocus(forward bool) {
	type wrapper interface {
		cwm.FocusCycler
		FocusFirst()
		FocusLast()
	}
	pg, ok := a.pager.CurrentPage().(wrapper)
	if !ok {
		return
	}
	if forward {
		if !pg.FocusNext() {
			pg.FocusFirst()
		}
		return
	}
	if !pg.FocusPrev() {
		pg.FocusLast()
	}
}

// doFinish sends the user to the first invalid page, or stores the active
// page and runs the finish callback.
func (a *App) doFinish() tea.Cmd {
	if invalid := a.pager.InvalidPages(); len(invalid) > 0 {
		names := make([]string, len(invalid))
		for i, pg := range invalid {
			names[i] = pageLabel(pg)
		}
		first := invalid[0].ID()
		if first != a.currentID() {
			// Leaving an invalid page may be blocked; the status line still
			// tells the user where to look.
			_ = a.navigate(first)
		}
		a.setError(fmt.Errorf("cannot finish, check: %s", strings.Join(names, ", ")))
		return nil
	}

	if err := a.pager.Store(); err != nil {
		a.setError(err)
		return nil
	}
	if a.finish != nil {
		if err := a.finish(); err != nil {
			a.setError(err)
			a.logger.Error("finish failed", "err", err)
			return nil
		}
	}
	a.finished = true
	return tea.Quit
}

// typing reports whether the focused widget is a text input, in which case
// printable shortcuts belong to it.
func (a *App) typing() bool {
	_, ok := focusedLeaf(a.pager.Contents()).(*widgets.InputField)
	return ok
}

func focusedLeaf(w cwm.Widget) cwm.Widget {
	for w != nil {
		fc, ok := w.(interface{ FocusedChild() cwm.Widget })
		if !ok {
			return w
		}
		child := fc.FocusedChild()
		if child == nil {
			return nil
		}
		w = child
	}
	return nil
}

func (a *App) currentID() string {
	if pg := a.pager.CurrentPage(); pg != nil {
		return pg.ID()
	}
	return ""
}

func (a *App) labelOf(id string) string {
	if pg, ok := a.pager.Page(id); ok {
		return pageLabel(pg)
	}
	return id
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	var target error = err
	if errors.Is(err, cwm.ErrReentrantSwitch) {
		target = errors.New("page switch already in progress")
	}
	a.status = target.Error()
	a.statusErr = true
}
