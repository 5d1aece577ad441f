package widgets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// base carries what every leaf widget has: an id, a label, help text and
// focus state.
type base struct {
	id      string
	label   string
	help    string
	focused bool
	err     string
}

func (b *base) ID() string    { return b.id }
func (b *base) Label() string { return b.label }
func (b *base) Help() string  { return b.help }
func (b *base) Focused() bool { return b.focused }

// Error returns the message of the last failed validation.
func (b *base) Error() string { return b.err }

func (b *base) withError(view string, width int) string {
	if b.err == "" {
		return view
	}
	msg := errorStyle.Width(max(width-4, 10)).Render("  ✗ " + b.err)
	return lipgloss.JoinVertical(lipgloss.Left, view, msg)
}

// cmdEvent turns a Bubble Tea command into an event, keeping a nil command
// a nil event.
func cmdEvent(cmd tea.Cmd) cwm.Event {
	if cmd == nil {
		return nil
	}
	return cmd
}

func isKey(msg tea.KeyMsg, keys ...string) bool {
	s := msg.String()
	for _, k := range keys {
		if s == k {
			return true
		}
	}
	return false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, true
	case "0", "f", "false", "n", "no", "off":
		return false, true
	}
	return false, false
}
