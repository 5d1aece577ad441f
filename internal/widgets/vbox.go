package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// Flexer is implemented by widgets that take the height their siblings
// leave free.
type Flexer interface {
	Flex() bool
}

// VBox stacks its children vertically.
type VBox struct {
	*cwm.CustomWidget
	gap int
}

func NewVBox(id string, children ...cwm.Widget) *VBox {
	return &VBox{CustomWidget: cwm.NewCustomWidget(id, children...), gap: 1}
}

// WithDefaultFocus names the widget focused when the page opens.
func (v *VBox) WithDefaultFocus(id string) *VBox {
	v.SetDefaultFocus(id)
	return v
}

// Flex reports whether any child is flexible.
func (v *VBox) Flex() bool {
	for _, child := range v.Children() {
		if f, ok := child.(Flexer); ok && f.Flex() {
			return true
		}
	}
	return false
}

// View renders fixed-height children at their natural height and shares
// the remaining height between the flexible ones.
func (v *VBox) View(width, height int) string {
	children := v.Children()
	parts := make([]string, len(children))

	var flexible []int
	used := 0
	for i, child := range children {
		if f, ok := child.(Flexer); ok && f.Flex() {
			flexible = append(flexible, i)
			continue
		}
		if vw, ok := child.(cwm.Viewer); ok {
			parts[i] = vw.View(width, 0)
			used += lipgloss.Height(parts[i])
		}
	}
	used += v.gap * max(len(children)-1, 0)

	if len(flexible) > 0 {
		share := max((height-used)/len(flexible), 3)
		for _, i := range flexible {
			if vw, ok := children[i].(cwm.Viewer); ok {
				parts[i] = vw.View(width, share)
			}
		}
	}

	var rows []string
	for i, p := range parts {
		if i > 0 {
			for g := 0; g < v.gap; g++ {
				rows = append(rows, "")
			}
		}
		rows = append(rows, p)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
