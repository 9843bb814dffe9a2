package setting

import (
	"sort"

	"github.com/shopspring/decimal"
)

const paymentNamespacePrefix = "payment_"

// PaymentNamespace is the settings namespace owned by a payment provider.
func PaymentNamespace(identifier string) string {
	return paymentNamespacePrefix + identifier
}

// Sandbox is a read-only view over the settings of one namespace of one
// event. Typed getters fall back to the given default on missing or
// unparsable values.
type Sandbox struct {
	eventID   uint
	namespace string
	values    map[string]*EventSetting
}

// NewSandbox keeps only the settings of eventID in namespace.
func NewSandbox(eventID uint, namespace string, settings []*EventSetting) *Sandbox {
	values := make(map[string]*EventSetting)
	for _, s := range settings {
		if s == nil || s.EventID() != eventID || s.Namespace() != namespace {
			continue
		}
		values[s.Key()] = s
	}
	return &Sandbox{eventID: eventID, namespace: namespace, values: values}
}

func (s *Sandbox) EventID() uint     { return s.eventID }
func (s *Sandbox) Namespace() string { return s.namespace }

func (s *Sandbox) Get(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok || !v.HasValue() {
		return "", false
	}
	return v.Value(), true
}

func (s *Sandbox) String(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

func (s *Sandbox) Bool(key string, def bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	b, err := ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func (s *Sandbox) Int(key string, def int) int {
	v, ok := s.values[key]
	if !ok || !v.HasValue() {
		return def
	}
	n, err := v.IntValue()
	if err != nil {
		return def
	}
	return n
}

func (s *Sandbox) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}

func (s *Sandbox) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
