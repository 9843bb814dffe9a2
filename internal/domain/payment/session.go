package payment

import (
	"sort"
	"strings"
)

// Session is the checkout session bag of one visitor. The host loads it
// before a request and saves it afterwards when Modified reports true.
type Session struct {
	id       string
	values   map[string]string
	modified bool
}

func NewSession(id string, values map[string]string) *Session {
	v := make(map[string]string, len(values))
	for k, val := range values {
		v[k] = val
	}
	return &Session{id: id, values: v}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) Modified() bool { return s.modified }
func (s *Session) MarkSaved()     { s.modified = false }

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	s.modified = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.modified = true
}

// Keys lists the keys starting with prefix in lexical order.
func (s *Session) Keys(prefix string) []string {
	keys := make([]string, 0)
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of the whole bag for persisting.
func (s *Session) Values() map[string]string {
	v := make(map[string]string, len(s.values))
	for k, val := range s.values {
		v[k] = val
	}
	return v
}

// Scope returns the view a single provider works with.
func (s *Session) Scope(identifier string) *ScopedSession {
	return &ScopedSession{session: s, prefix: SessionPrefix(identifier)}
}

// SessionPrefix is the key prefix owned by a provider.
func SessionPrefix(identifier string) string {
	return "payment_" + identifier + "_"
}

// ScopedSession restricts reads and writes to the keys below one prefix.
// Field names are given without the prefix.
type ScopedSession struct {
	session *Session
	prefix  string
}

func (s *ScopedSession) Prefix() string { return s.prefix }

func (s *ScopedSession) Get(field string) (string, bool) {
	return s.session.Get(s.prefix + field)
}

func (s *ScopedSession) Set(field, value string) {
	s.session.Set(s.prefix+field, value)
}

func (s *ScopedSession) Delete(field string) {
	s.session.Delete(s.prefix + field)
}

// Fields returns every stored field by its unprefixed name.
func (s *ScopedSession) Fields() map[string]string {
	out := make(map[string]string)
	for _, k := range s.session.Keys(s.prefix) {
		v, _ := s.session.Get(k)
		out[strings.TrimPrefix(k, s.prefix)] = v
	}
	return out
}

func (s *ScopedSession) Clear() {
	for _, k := range s.session.Keys(s.prefix) {
		s.session.Delete(k)
	}
}
