package setup

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

var (
	// ErrUnknownWidget is returned by Apply for a value addressed to a widget
	// the page does not have.
	ErrUnknownWidget = errors.New("setup: unknown widget")
	// ErrInvalidAnswers is wrapped when the answered pages do not validate.
	ErrInvalidAnswers = errors.New("setup: answers leave pages invalid")
	// ErrLeaveBlocked is returned when the departure policy keeps Apply on
	// an invalid page.
	ErrLeaveBlocked = errors.New("setup: page is invalid, cannot leave")
)

// Answers drive the wizard without a terminal. Pages are visited in the
// given order and each value is set on the widget with the same id.
//
//	pages:
//	  - page: license
//	    values:
//	      license-accept: "yes"
//	  - page: ingest
//	    values:
//	      tcp-port: "4100"
type Answers struct {
	Pages []PageAnswers `yaml:"pages"`
}

// PageAnswers are the values set on one page.
type PageAnswers struct {
	Page   string            `yaml:"page"`
	Values map[string]string `yaml:"values"`
}

// ParseAnswers decodes an answers document. Unknown keys are an error.
func ParseAnswers(data []byte) (Answers, error) {
	var a Answers
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return Answers{}, fmt.Errorf("setup: parse answers: %w", err)
	}
	for i, p := range a.Pages {
		if strings.TrimSpace(p.Page) == "" {
			return Answers{}, fmt.Errorf("setup: parse answers: entry %d has no page", i+1)
		}
	}
	return a, nil
}

// Apply feeds answers to the pager the way a user would: it navigates to
// each page and sets the values, then validates every visited page and
// stores the active one. The pager is initialized if needed.
func Apply(pager *cwm.Pager, answers Answers) error {
	if pager.CurrentPage() == nil {
		if err := pager.Init(); err != nil {
			return fmt.Errorf("setup: init pages: %w", err)
		}
	}

	for _, pa := range answers.Pages {
		out, err := pager.Handle(cwm.NavigateTo(pa.Page))
		if err != nil {
			return fmt.Errorf("setup: page %q: %w", pa.Page, err)
		}
		if blocked, ok := out.(cwm.LeaveBlocked); ok {
			return fmt.Errorf("%w: %q", ErrLeaveBlocked, blocked.Page)
		}

		ids := make([]string, 0, len(pa.Values))
		for id := range pa.Values {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if cwm.Find(pager.Contents(), id) == nil {
				return fmt.Errorf("%w: %q on page %q", ErrUnknownWidget, id, pa.Page)
			}
			if _, err := pager.Handle(widgets.SetValue{Widget: id, Value: pa.Values[id]}); err != nil {
				return fmt.Errorf("setup: page %q: set %s: %w", pa.Page, id, err)
			}
		}
	}

	if invalid := pager.InvalidPages(); len(invalid) > 0 {
		ids := make([]string, len(invalid))
		for i, pg := range invalid {
			ids[i] = pg.ID()
		}
		return fmt.Errorf("%w: %s", ErrInvalidAnswers, strings.Join(ids, ", "))
	}
	return pager.Store()
}
