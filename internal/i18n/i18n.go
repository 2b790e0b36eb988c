// Package i18n holds the UI string catalogs. Lookups never fail: a key
// missing from the active catalog falls back to English, then to the key.
package i18n

import (
	"fmt"
	"sort"
)

// Language is a catalog identifier such as "en".
type Language string

const English Language = "en"

var (
	catalogs = map[Language]map[string]string{English: en}
	active   = English
)

// Languages returns the available catalogs, English first.
func Languages() []Language {
	out := make([]Language, 0, len(catalogs))
	for l := range catalogs {
		if l != English {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return append([]Language{English}, out...)
}

// SetLanguage activates the named catalog. An unknown name selects English
// and reports false.
func SetLanguage(lang string) bool {
	if _, ok := catalogs[Language(lang)]; ok {
		active = Language(lang)
		return true
	}
	active = English
	return false
}

func Current() Language {
	return active
}

func T(key string) string {
	if v, ok := catalogs[active][key]; ok {
		return v
	}
	if v, ok := en[key]; ok {
		return v
	}
	return key
}

func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}
