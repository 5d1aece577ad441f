package widgets

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/model"
)

// Summary shows how far the configuration departs from the defaults: a
// bar per section with the number of changed keys, then the keys.
type Summary struct {
	base
	config func() model.SetupConfig
	target string
}

func NewSummary(id string, config func() model.SetupConfig, target string) *Summary {
	return &Summary{
		base:   base{id: id, help: "Review the settings before they are written. "},
		config: config,
		target: target,
	}
}

func (s *Summary) Init() error                         { return nil }
func (s *Summary) Handle(cwm.Event) (cwm.Event, error) { return nil, nil }
func (s *Summary) Store() error                        { return nil }

// Validate checks the whole configuration and shows what is wrong.
func (s *Summary) Validate() bool {
	s.err = ""
	if err := s.config().Validate(); err != nil {
		s.err = strings.ReplaceAll(err.Error(), "\n", "; ")
		return false
	}
	return true
}

func (s *Summary) View(width, _ int) string {
	sections := s.config().Sections()

	chartWidth := min(max(width-4, 20), 60)
	bc := barchart.New(chartWidth, 8,
		barchart.WithBarGap(2),
		barchart.WithBarWidth(max(chartWidth/len(sections)-2, 1)),
	)
	barStyle := lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorGray).Background(ColorGray)
	for _, sec := range sections {
		value := barchart.BarValue{Name: sec.Name, Value: float64(len(sec.Changed)), Style: barStyle}
		if len(sec.Changed) == 0 {
			value.Style = emptyStyle
		}
		bc.Push(barchart.BarData{Label: sec.Name, Values: []barchart.BarValue{value}})
	}
	bc.Draw()

	var lines []string
	lines = append(lines, labelStyle.Render("Changed settings per section"), bc.View(), "")
	for _, sec := range sections {
		line := fmt.Sprintf("%-8s %d/%d", sec.Name, len(sec.Changed), sec.Total)
		if len(sec.Changed) > 0 {
			line += "  " + changedStyle.Render(strings.Join(sec.Changed, ", "))
		}
		lines = append(lines, line)
	}
	if s.target != "" {
		lines = append(lines, "", mutedStyle.Render("Will be written to "+s.target))
	}
	return s.withError(lipgloss.JoinVertical(lipgloss.Left, lines...), width)
}
