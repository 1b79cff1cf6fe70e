package locale

import (
	"fmt"
	"strings"

	"HelpBot/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Mode selects how many languages one reply carries.
type Mode string

const (
	// ModeAll renders every configured language into one message.
	ModeAll Mode = "all"
	// ModeUser renders only the language closest to the user's client.
	ModeUser Mode = "user"
)

const separator = "\n\n"

type Renderer struct {
	mode     Mode
	tags     []language.Tag
	printers []*message.Printer
	matcher  language.Matcher
}

// NewRenderer prepares printers for languages, in the given order. The first
// language is the fallback in ModeUser.
func NewRenderer(bundle *Bundle, languages []string, mode Mode) (*Renderer, error) {
	if mode != ModeAll && mode != ModeUser {
		return nil, fmt.Errorf("unknown language mode %q", mode)
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("at least one language is required")
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	r := &Renderer{mode: mode}
	for _, locale := range languages {
		locale = strings.TrimSpace(locale)
		if !bundle.HasLocale(locale) {
			return nil, fmt.Errorf("no catalog for language %q", locale)
		}
		tag := language.MustParse(locale)
		for key, msg := range bundle.locales[locale] {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
		r.tags = append(r.tags, tag)
	}
	for _, tag := range r.tags {
		r.printers = append(r.printers, message.NewPrinter(tag, message.Catalog(builder)))
	}
	r.matcher = language.NewMatcher(r.tags)
	return r, nil
}

// Render returns the text for prompt. userLanguage is the client's IETF
// language code and only matters in ModeUser.
func (r *Renderer) Render(prompt model.Prompt, userLanguage string, args ...any) string {
	if r.mode == ModeUser {
		return r.printer(userLanguage).Sprintf(string(prompt), args...)
	}
	parts := make([]string, 0, len(r.printers))
	for _, p := range r.printers {
		parts = append(parts, p.Sprintf(string(prompt), args...))
	}
	return strings.Join(parts, separator)
}

// Label returns a button label. Buttons are always single-language.
func (r *Renderer) Label(prompt model.Prompt, userLanguage string) string {
	if r.mode == ModeUser {
		return r.printer(userLanguage).Sprintf(string(prompt))
	}
	return r.printers[0].Sprintf(string(prompt))
}

func (r *Renderer) printer(userLanguage string) *message.Printer {
	if userLanguage == "" {
		return r.printers[0]
	}
	_, idx, confidence := r.matcher.Match(language.Make(userLanguage))
	if confidence == language.No {
		return r.printers[0]
	}
	return r.printers[idx]
}
