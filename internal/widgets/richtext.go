package widgets

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// RenderMarkdown renders markdown for a terminal of the given width.
func RenderMarkdown(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// RichText shows markdown in a scrollable viewport. Arrow keys, page keys
// and the mouse wheel scroll it while focused.
type RichText struct {
	base
	markdown string
	viewport viewport.Model

	renderedFor int // width of the cached render, -1 when stale
	rendered    string
	reverse     bool
}

func NewRichText(id, markdown string) *RichText {
	return &RichText{
		base:        base{id: id},
		markdown:    markdown,
		viewport:    viewport.New(80, 20),
		renderedFor: -1,
	}
}

// ReverseScrollWheel inverts the mouse wheel direction.
func (r *RichText) ReverseScrollWheel(on bool) *RichText {
	r.reverse = on
	return r
}

// SetMarkdown replaces the text and scrolls back to the top.
func (r *RichText) SetMarkdown(markdown string) {
	r.markdown = markdown
	r.renderedFor = -1
	r.viewport.GotoTop()
}

func (r *RichText) Markdown() string { return r.markdown }

// Flex marks the widget as taking the height left over by its siblings.
func (r *RichText) Flex() bool { return true }

func (r *RichText) Init() error { return nil }

func (r *RichText) Handle(ev cwm.Event) (cwm.Event, error) {
	if !r.focused {
		return nil, nil
	}
	switch msg := ev.(type) {
	case tea.KeyMsg:
		switch {
		case isKey(msg, "up", "k"):
			r.viewport.ScrollUp(1)
		case isKey(msg, "down", "j"):
			r.viewport.ScrollDown(1)
		case isKey(msg, "pgup"):
			r.viewport.HalfPageUp()
		case isKey(msg, "pgdown", " "):
			r.viewport.HalfPageDown()
		case isKey(msg, "home"):
			r.viewport.GotoTop()
		case isKey(msg, "end"):
			r.viewport.GotoBottom()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil, nil
		}
		up := msg.Button == tea.MouseButtonWheelUp
		down := msg.Button == tea.MouseButtonWheelDown
		if r.reverse {
			up, down = down, up
		}
		if up {
			r.viewport.ScrollUp(1)
		} else if down {
			r.viewport.ScrollDown(1)
		}
	}
	return nil, nil
}

func (r *RichText) Store() error   { return nil }
func (r *RichText) Validate() bool { return true }

func (r *RichText) Focus() { r.focused = true }
func (r *RichText) Blur()  { r.focused = false }

func (r *RichText) View(width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}
	if r.renderedFor != width {
		out, err := RenderMarkdown(r.markdown, width-2)
		if err != nil {
			out = r.markdown
		}
		r.rendered = out
		r.renderedFor = width
		r.viewport.SetContent(out)
	}
	r.viewport.Width = width
	r.viewport.Height = height
	return r.viewport.View()
}

// Text is static, unfocusable text such as a page introduction.
type Text struct {
	base
	text string
}

func NewText(id, text string) *Text {
	return &Text{base: base{id: id}, text: text}
}

func (t *Text) SetText(text string) { t.text = text }

func (t *Text) Init() error                         { return nil }
func (t *Text) Handle(cwm.Event) (cwm.Event, error) { return nil, nil }
func (t *Text) Store() error                        { return nil }
func (t *Text) Validate() bool                      { return true }
func (t *Text) View(width, _ int) string            { return mutedStyle.Width(max(width, 1)).Render(t.text) }
