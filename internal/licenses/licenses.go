// Package licenses finds the license text a user has to accept, in the
// user's language when a translation exists.
//
// A license source is a tree of files. Translations are named
// LICENSE.<lang>.TXT (for example LICENSE.de_DE.TXT or LICENSE.de.TXT) and
// the untranslated text is LICENSE.TXT. Names are matched case-insensitively
// anywhere in the tree.
package licenses

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// DefaultLang is always offered, since the untranslated license is in it.
const DefaultLang = "en_US"

const fallbackName = "LICENSE.TXT"

// ErrNotFound is returned when no license file matches.
var ErrNotFound = errors.New("licenses: license not found")

var translatedName = regexp.MustCompile(`(?i)^LICENSE\.(\w*)\.TXT$`)

// Fetcher returns license texts from one source.
type Fetcher interface {
	// Content returns the license text for lang ("de_DE"). When no
	// translation exists for lang, the language part alone ("de") is
	// tried, then the untranslated license.
	Content(lang string) (string, error)
	// Locales lists the languages a translation exists for, plus
	// DefaultLang.
	Locales() ([]string, error)
}

// Source names a kind of license source.
type Source string

const (
	// SourceDir is a directory holding the license files.
	SourceDir Source = "dir"
	// SourceArchive is a .tar.gz archive holding the license files.
	SourceArchive Source = "archive"
)

// ParseSource accepts "dir" and "archive".
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceDir, SourceArchive:
		return Source(s), nil
	}
	return "", fmt.Errorf("licenses: unknown source %q", s)
}

// Option configures a fetcher.
type Option func(*fetcher)

// WithLogger sets the logger used for lookups.
func WithLogger(logger *log.Logger) Option {
	return func(f *fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// For returns the fetcher for source, reading location from fsys.
func For(source Source, fsys afero.Fs, location string, opts ...Option) (Fetcher, error) {
	f := &fetcher{
		location: location,
		logger:   log.Default().WithPrefix("licenses"),
	}
	for _, opt := range opts {
		opt(f)
	}

	switch source {
	case SourceDir:
		f.open = func() (afero.Fs, string, error) {
			if _, err := fsys.Stat(location); err != nil {
				return nil, "", fmt.Errorf("%w: %s: %v", ErrNotFound, location, err)
			}
			return fsys, location, nil
		}
	case SourceArchive:
		f.open = func() (afero.Fs, string, error) {
			extracted, err := extractArchive(fsys, location)
			if err != nil {
				return nil, "", err
			}
			return extracted, "/", nil
		}
	default:
		return nil, fmt.Errorf("licenses: unknown source %q", source)
	}
	return f, nil
}

type fetcher struct {
	location string
	open     func() (afero.Fs, string, error)
	logger   *log.Logger

	tree           afero.Fs
	root           string
	locales        []string
	defaultContent *string
}

func (f *fetcher) Content(lang string) (string, error) {
	if lang == "" {
		lang = DefaultLang
	}
	if lang == DefaultLang && f.defaultContent != nil {
		return *f.defaultContent, nil
	}

	if err := f.load(); err != nil {
		return "", err
	}

	path, ok := f.licensePath(lang)
	if !ok {
		f.logger.Info("searching for a fallback license", "file", fallbackName, "location", f.location)
		path, ok = f.find(func(name string) bool { return strings.EqualFold(name, fallbackName) })
	}
	if !ok {
		f.logger.Error("license file not found", "lang", lang, "location", f.location)
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, lang, f.location)
	}

	data, err := afero.ReadFile(f.tree, path)
	if err != nil {
		return "", fmt.Errorf("licenses: read %s: %w", path, err)
	}
	content := string(data)
	if lang == DefaultLang {
		f.defaultContent = &content
	}
	return content, nil
}

func (f *fetcher) Locales() ([]string, error) {
	if f.locales != nil {
		return f.locales, nil
	}
	if err := f.load(); err != nil {
		f.logger.Error("error getting license translations", "location", f.location, "err", err)
		return nil, err
	}

	var langs []string
	seen := map[string]bool{}
	add := func(lang string) {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	err := afero.Walk(f.tree, f.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		// The captured language keeps the case used in the file name.
		if m := translatedName.FindStringSubmatch(info.Name()); m != nil {
			add(m[1])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("licenses: scan %s: %w", f.location, err)
	}
	add(DefaultLang)

	f.locales = langs
	return langs, nil
}

func (f *fetcher) load() error {
	if f.tree != nil {
		return nil
	}
	tree, root, err := f.open()
	if err != nil {
		return err
	}
	f.tree, f.root = tree, root
	return nil
}

// licensePath finds the translation for lang, falling back from "xx_YY"
// to "xx".
func (f *fetcher) licensePath(lang string) (string, bool) {
	candidates := []string{lang}
	if short, _, found := strings.Cut(lang, "_"); found && short != lang {
		candidates = append(candidates, short)
	}
	f.logger.Info("searching for license translations", "langs", strings.Join(candidates, ","), "location", f.location)

	for _, candidate := range candidates {
		want := "LICENSE." + candidate + ".TXT"
		if path, ok := f.find(func(name string) bool { return strings.EqualFold(name, want) }); ok {
			return path, true
		}
	}
	return "", false
}

// find returns the first file in lexical walk order whose base name
// matches.
func (f *fetcher) find(match func(name string) bool) (string, bool) {
	var found string
	_ = afero.Walk(f.tree, f.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && match(info.Name()) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}
