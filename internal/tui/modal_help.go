package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

// helpMarkdown builds the help document for a page: its own help text
// followed by a table of the global keys.
func helpMarkdown(pageLabel, pageHelp string, keys KeyMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pageLabel)
	if strings.TrimSpace(pageHelp) == "" {
		b.WriteString("_No help is available for this page._\n\n")
	} else {
		b.WriteString(pageHelp)
		b.WriteString("\n\n")
	}
	b.WriteString("## Keys\n\n| Key | Action |\n|---|---|\n")
	for _, kb := range keys.fullHelp() {
		h := kb.Help()
		fmt.Fprintf(&b, "| %s | %s |\n", h.Key, h.Desc)
	}
	return b.String()
}

// render draws the help modal, re-rendering the markdown when the width
// changed.
func (h *HelpModal) render(width, height int) string {
	modalWidth := width - 8   // 4 columns margin each side
	modalHeight := height - 4 // 2 rows margin top and bottom

	contentWidth := max(modalWidth-4, 10)
	contentHeight := max(modalHeight-4, 1)

	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight

	if h.renderedFor != contentWidth {
		out, err := widgets.RenderMarkdown(h.markdown, contentWidth)
		if err != nil {
			out = h.markdown
		}
		h.viewport.SetContent(out)
		h.renderedFor = contentWidth
	}

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(widgets.ColorGray).
		Render(h.viewport.View())

	header := modalHeaderStyle.Width(contentWidth).Render("Help: " + h.title)
	status := modalStatusStyle.Render("up/down/Wheel: Scroll | PgUp/PgDn: Page | ?/esc: Close")

	body := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, status)
	return renderModalFrame(body, modalWidth, modalHeight, width, height)
}
