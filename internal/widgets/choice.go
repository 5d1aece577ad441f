package widgets

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// ErrUnknownOption is returned when a value matches no option.
var ErrUnknownOption = errors.New("unknown option")

// Option is one entry of a Choice.
type Option struct {
	Value string
	Label string
}

// Options builds options whose labels equal their values.
func Options(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// Choice selects one of a list of options. Up and down move the selection
// while focused.
type Choice struct {
	base
	options  []Option
	selected int
	get      func() string
	set      func(string)
}

func NewChoice(id, label string, options []Option, get func() string, set func(string)) *Choice {
	return &Choice{base: base{id: id, label: label}, options: options, get: get, set: set}
}

func (c *Choice) WithHelp(text string) *Choice {
	c.help = text
	return c
}

// SetOptions replaces the options, keeping the selected value when it is
// still offered.
func (c *Choice) SetOptions(options []Option) {
	current := c.Value()
	c.options = options
	c.selected = 0
	c.selectValue(current)
}

// Value returns the selected option's value, or "" without options.
func (c *Choice) Value() string {
	if c.selected < 0 || c.selected >= len(c.options) {
		return ""
	}
	return c.options[c.selected].Value
}

func (c *Choice) selectValue(v string) bool {
	for i, o := range c.options {
		if o.Value == v {
			c.selected = i
			return true
		}
	}
	return false
}

func (c *Choice) Init() error {
	c.selected = 0
	c.selectValue(c.get())
	return nil
}

func (c *Choice) Handle(ev cwm.Event) (cwm.Event, error) {
	switch msg := ev.(type) {
	case SetValue:
		before := c.Value()
		if !c.selectValue(msg.Value) {
			return nil, fmt.Errorf("%s: %w %q", c.id, ErrUnknownOption, msg.Value)
		}
		return c.changedFrom(before), nil
	case tea.KeyMsg:
		if !c.focused || len(c.options) == 0 {
			return nil, nil
		}
		before := c.Value()
		switch {
		case isKey(msg, "up", "k", "left"):
			c.selected = (c.selected - 1 + len(c.options)) % len(c.options)
		case isKey(msg, "down", "j", "right"):
			c.selected = (c.selected + 1) % len(c.options)
		default:
			return nil, nil
		}
		return c.changedFrom(before), nil
	}
	return nil, nil
}

func (c *Choice) changedFrom(before string) cwm.Event {
	if c.Value() == before {
		return nil
	}
	return Changed{Widget: c.id, Value: c.Value()}
}

func (c *Choice) Store() error {
	if v := c.Value(); v != "" {
		c.set(v)
	}
	return nil
}

func (c *Choice) Validate() bool {
	c.err = ""
	if len(c.options) == 0 {
		c.err = "nothing to choose from"
		return false
	}
	return true
}

func (c *Choice) Focus() { c.focused = true }
func (c *Choice) Blur()  { c.focused = false }

func (c *Choice) View(width, _ int) string {
	items := make([]string, len(c.options))
	for i, o := range c.options {
		if i == c.selected {
			items[i] = selectedStyle.Render("(•) " + o.Label)
		} else {
			items[i] = mutedStyle.Render("( ) " + o.Label)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		renderLabel(c.label+": ", c.focused),
		strings.Join(items, "  "),
	)
	return c.withError(row, width)
}
