// Package i18n holds the translatable text type used for catalog names and
// question texts.
package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

const FallbackLocale = "en"

// String maps locale codes to translations, e.g. {"en": "Ticket", "de": "Eintrittskarte"}.
type String map[string]string

// Plain returns a String holding only the fallback translation.
func Plain(text string) String {
	return String{FallbackLocale: text}
}

func (s String) IsEmpty() bool {
	for _, v := range s {
		if v != "" {
			return false
		}
	}
	return true
}

// Localize picks the best matching translation for locale, then the
// fallback locale, then any translation in key order.
func (s String) Localize(locale string) string {
	keys := s.keys()
	if len(keys) == 0 {
		return ""
	}
	if v := s[locale]; v != "" {
		return v
	}

	if want, err := language.Parse(locale); err == nil {
		tags := make([]language.Tag, len(keys))
		for i, k := range keys {
			tags[i] = language.Make(k)
		}
		if _, idx, conf := language.NewMatcher(tags).Match(want); conf != language.No {
			return s[keys[idx]]
		}
	}

	if v := s[FallbackLocale]; v != "" {
		return v
	}
	return s[keys[0]]
}

func (s String) keys() []string {
	keys := make([]string, 0, len(s))
	for k, v := range s {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s String) Clone() String {
	if s == nil {
		return nil
	}
	out := make(String, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s String) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *String) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = String{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("i18n: cannot scan %T", value)
	}
	m := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("i18n: %w", err)
		}
	}
	*s = m
	return nil
}
