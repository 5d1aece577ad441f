package widgets

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// CheckBox is a boolean toggle. Space or enter toggles it while focused.
type CheckBox struct {
	base
	checked  bool
	required bool
	get      func() bool
	set      func(bool)
}

func NewCheckBox(id, label string, get func() bool, set func(bool)) *CheckBox {
	return &CheckBox{base: base{id: id, label: label}, get: get, set: set}
}

// Required makes Validate fail while the box is unchecked.
func (c *CheckBox) Required() *CheckBox {
	c.required = true
	return c
}

func (c *CheckBox) WithHelp(text string) *CheckBox {
	c.help = text
	return c
}

func (c *CheckBox) Checked() bool { return c.checked }

func (c *CheckBox) Init() error {
	c.checked = c.get()
	c.err = ""
	return nil
}

func (c *CheckBox) Handle(ev cwm.Event) (cwm.Event, error) {
	switch msg := ev.(type) {
	case SetValue:
		v, ok := parseBool(msg.Value)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not yes or no", c.id, msg.Value)
		}
		return c.setChecked(v), nil
	case tea.KeyMsg:
		if c.focused && isKey(msg, " ", "enter", "x") {
			return c.setChecked(!c.checked), nil
		}
	}
	return nil, nil
}

func (c *CheckBox) setChecked(v bool) cwm.Event {
	if v == c.checked {
		return nil
	}
	c.checked = v
	c.err = ""
	return Changed{Widget: c.id, Value: strconv.FormatBool(v)}
}

func (c *CheckBox) Store() error {
	c.set(c.checked)
	return nil
}

func (c *CheckBox) Validate() bool {
	c.err = ""
	if c.required && !c.checked {
		c.err = c.label + " is required"
		return false
	}
	return true
}

func (c *CheckBox) Focus() { c.focused = true }
func (c *CheckBox) Blur()  { c.focused = false }

func (c *CheckBox) View(width, _ int) string {
	box := "[ ]"
	if c.checked {
		box = selectedStyle.Render("[x]")
	}
	return c.withError(renderLabel(box+" "+c.label, c.focused), width)
}
