// Package i18n resolves dotted translation keys against JSON locale files.
// A Translator is built once at boot and injected into whatever needs it;
// there is no package-level state.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Translator holds flattened key-to-message tables per language. Lookups
// fall back to the default language and finally to the key itself, so a
// missing entry degrades visibly instead of failing.
type Translator struct {
	defaultLanguage string
	tables          map[string]map[string]string
}

// Load reads every *.json file in dir as a locale named after the file.
// Nested objects flatten into dotted keys ("auth.login_success").
func Load(dir, defaultLanguage string) (*Translator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	tables := make(map[string]map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var nested map[string]any
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		table := make(map[string]string)
		flatten("", nested, table)
		tables[strings.TrimSuffix(name, ".json")] = table
	}

	if _, ok := tables[defaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q has no locale file in %s", defaultLanguage, dir)
	}
	return &Translator{defaultLanguage: defaultLanguage, tables: tables}, nil
}

func flatten(prefix string, nested map[string]any, out map[string]string) {
	for key, value := range nested {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			flatten(full, v, out)
		}
	}
}

// Supported reports whether a locale file was loaded for lang.
func (t *Translator) Supported(lang string) bool {
	_, ok := t.tables[lang]
	return ok
}

// DefaultLanguage returns the fallback language tag.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLanguage
}

// Translate resolves key in lang with :placeholder substitution. Unresolved
// keys come back verbatim.
func (t *Translator) Translate(lang, key string, replacements map[string]string) string {
	msg, ok := t.lookup(lang, key)
	if !ok {
		return key
	}
	for name, value := range replacements {
		msg = strings.ReplaceAll(msg, ":"+name, value)
	}
	return msg
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	if table, ok := t.tables[lang]; ok {
		if msg, ok := table[key]; ok {
			return msg, true
		}
	}
	if lang != t.defaultLanguage {
		if msg, ok := t.tables[t.defaultLanguage][key]; ok {
			return msg, true
		}
	}
	return "", false
}
