package widgets

import (
	"fmt"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
)

// LicenseSource provides license texts per language.
type LicenseSource interface {
	Content(lang string) (string, error)
	Locales() ([]string, error)
}

// LicenseAgreement shows a license in the chosen language with a checkbox
// that must be ticked to continue. Choosing another language reloads the
// text.
type LicenseAgreement struct {
	*VBox
	source  LicenseSource
	lang    *Choice
	text    *RichText
	accept  *CheckBox
	loadErr error
}

func NewLicenseAgreement(id string, source LicenseSource,
	getLang func() string, setLang func(string),
	getAccepted func() bool, setAccepted func(bool),
) *LicenseAgreement {
	lang := NewChoice(id+"-lang", "Language", nil, getLang, setLang).
		WithHelp("Choose the language the license is shown in. ")
	text := NewRichText(id+"-text", "")
	accept := NewCheckBox(id+"-accept", "I accept the license", getAccepted, setAccepted).
		Required().
		WithHelp("The license must be accepted to continue. ")

	return &LicenseAgreement{
		VBox:   NewVBox(id, lang, text, accept).WithDefaultFocus(accept.ID()),
		source: source,
		lang:   lang,
		text:   text,
		accept: accept,
	}
}

// Lang is the language of the displayed text.
func (l *LicenseAgreement) Lang() string { return l.lang.Value() }

// Text is the displayed license text.
func (l *LicenseAgreement) Text() string { return l.text.Markdown() }

func (l *LicenseAgreement) Init() error {
	locales, err := l.source.Locales()
	if err != nil {
		return fmt.Errorf("license languages: %w", err)
	}
	l.lang.SetOptions(Options(locales...))

	if err := l.VBox.Init(); err != nil {
		return err
	}
	l.reload()
	return nil
}

func (l *LicenseAgreement) Handle(ev cwm.Event) (cwm.Event, error) {
	out, err := l.VBox.Handle(ev)
	if err != nil {
		return nil, err
	}
	if c, ok := out.(Changed); ok && c.Widget == l.lang.ID() {
		l.reload()
		return nil, nil
	}
	return out, nil
}

func (l *LicenseAgreement) reload() {
	content, err := l.source.Content(l.lang.Value())
	l.loadErr = err
	if err != nil {
		l.text.SetMarkdown(fmt.Sprintf("*The license could not be loaded: %v*", err))
		return
	}
	l.text.SetMarkdown(content)
}

func (l *LicenseAgreement) Validate() bool {
	ok := l.VBox.Validate()
	return ok && l.loadErr == nil
}
