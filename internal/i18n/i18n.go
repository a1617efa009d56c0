// Package i18n holds the UI string tables. Lookups resolve dotted keys in the active
// language, then English, then return the key itself.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Punjabi Language = "pa"
	Urdu    Language = "ur"
)

// Languages is the cycle order on the login screen.
var Languages = []Language{English, Hindi, Punjabi, Urdu}

var ErrUnknownLanguage = errors.New("unknown language")

var names = map[Language]string{
	English: "English",
	Hindi:   "हिन्दी",
	Punjabi: "ਪੰਜਾਬੀ",
	Urdu:    "اردو",
}

func (l Language) Name() string {
	if n, ok := names[l]; ok {
		return n
	}
	return string(l)
}

func (l Language) IsRTL() bool { return l == Urdu }

func (l Language) Valid() bool {
	_, ok := names[l]
	return ok
}

// Next returns the language after l in Languages, wrapping around.
func (l Language) Next() Language {
	for i, x := range Languages {
		if x == l {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return English
}

func Parse(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return English, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return l, nil
}

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog holds flattened string tables per language.
type Catalog struct {
	tables map[Language]map[string]string
}

// Load decodes every embedded locale table.
func Load() (*Catalog, error) {
	c := &Catalog{tables: map[Language]map[string]string{}}
	for _, l := range Languages {
		file := path.Join("locales", string(l)+".toml")
		data, err := localeFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		flat := map[string]string{}
		flatten("", raw, flat)
		c.tables[l] = flat
	}
	return c, nil
}

// MustLoad panics if the embedded tables are malformed.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			flatten(key, x, out)
		case string:
			out[key] = x
		}
	}
}

func (c *Catalog) T(lang Language, key string) string {
	if c == nil {
		return key
	}
	if s, ok := c.tables[lang][key]; ok {
		return s
	}
	if s, ok := c.tables[English][key]; ok {
		return s
	}
	return key
}

// Keys lists the keys defined for lang, sorted.
func (c *Catalog) Keys(lang Language) []string {
	keys := make([]string, 0, len(c.tables[lang]))
	for k := range c.tables[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translator binds a catalog to one language.
type Translator struct {
	Catalog *Catalog
	Lang    Language
}

func (t Translator) T(key string) string { return t.Catalog.T(t.Lang, key) }
