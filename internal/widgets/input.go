package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// InputField is a single-line text input.
type InputField struct {
	base
	input    textinput.Model
	get      func() string
	set      func(string)
	validate func(string) error
}

// NewInputField binds a text input to a string value.
func NewInputField(id, label string, get func() string, set func(string)) *InputField {
	in := textinput.New()
	in.CharLimit = 512
	in.Prompt = ""
	return &InputField{
		base:  base{id: id, label: label},
		input: in,
		get:   get,
		set:   set,
	}
}

// NewIntField binds a text input to an integer in [lo, hi]. Text that is
// not such an integer fails validation and is not stored.
func NewIntField(id, label string, get func() int, set func(int), lo, hi int) *InputField {
	f := NewInputField(id, label,
		func() string { return strconv.Itoa(get()) },
		func(s string) {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= lo && n <= hi {
				set(n)
			}
		},
	)
	f.input.CharLimit = 10
	f.validate = func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a whole number", label)
		}
		if n < lo || n > hi {
			return fmt.Errorf("%s must be between %d and %d", label, lo, hi)
		}
		return nil
	}
	return f
}

// WithValidator adds a check run by Validate. Checks run in the order they
// were added and the first failure is shown.
func (f *InputField) WithValidator(fn func(string) error) *InputField {
	prev := f.validate
	f.validate = func(s string) error {
		if prev != nil {
			if err := prev(s); err != nil {
				return err
			}
		}
		return fn(s)
	}
	return f
}

func (f *InputField) WithHelp(text string) *InputField {
	f.help = text
	return f
}

func (f *InputField) WithPlaceholder(text string) *InputField {
	f.input.Placeholder = text
	return f
}

// Value returns the current text.
func (f *InputField) Value() string { return f.input.Value() }

func (f *InputField) Init() error {
	f.input.SetValue(f.get())
	f.input.CursorEnd()
	f.err = ""
	return nil
}

func (f *InputField) Handle(ev cwm.Event) (cwm.Event, error) {
	switch msg := ev.(type) {
	case SetValue:
		f.input.SetValue(msg.Value)
		return nil, nil
	case tea.KeyMsg:
		if !f.focused {
			return nil, nil
		}
		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if f.input.Value() != before {
			f.err = ""
		}
		return cmdEvent(cmd), nil
	}

	if !f.focused {
		return nil, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(ev)
	return cmdEvent(cmd), nil
}

func (f *InputField) Store() error {
	f.set(f.input.Value())
	return nil
}

func (f *InputField) Validate() bool {
	f.err = ""
	if f.validate == nil {
		return true
	}
	if err := f.validate(f.input.Value()); err != nil {
		f.err = err.Error()
		return false
	}
	return true
}

func (f *InputField) Focus() {
	f.focused = true
	f.input.Focus()
}

func (f *InputField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *InputField) View(width, _ int) string {
	f.input.Width = max(width-6, 8)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		renderLabel(f.label+": ", f.focused),
		f.input.View(),
	)
	return f.withError(row, width)
}
