// Package locale renders prompt kinds into user-facing text from YAML
// catalogs embedded in the binary.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the catalog every other locale is checked against.
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadEmbedded loads the catalogs shipped with the bot.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys. Every locale must define
// exactly the keys of the base locale.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}

	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	for locale, messages := range b.locales {
		for key := range base {
			if _, ok := messages[key]; !ok {
				return nil, fmt.Errorf("catalog %s: missing key %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				return nil, fmt.Errorf("catalog %s: key %q is not in base locale", locale, key)
			}
		}
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}
	if _, exists := b.locales[locale]; exists {
		return fmt.Errorf("catalog %s: locale %q already defined", p, locale)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[key] = value
	}
	b.locales[locale] = messages
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}
