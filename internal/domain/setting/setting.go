package setting

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

// ValueType defines how the stored string is interpreted.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeInt     ValueType = "int"
	ValueTypeBool    ValueType = "bool"
	ValueTypeDecimal ValueType = "decimal"
	ValueTypeJSON    ValueType = "json"
)

func (t ValueType) IsValid() bool {
	switch t {
	case ValueTypeString, ValueTypeInt, ValueTypeBool, ValueTypeDecimal, ValueTypeJSON:
		return true
	}
	return false
}

// EventSetting is one persisted setting value of an event. Settings are
// grouped by namespace; a payment provider owns the namespace
// "payment_<identifier>".
type EventSetting struct {
	id        uint
	eventID   uint
	namespace string
	key       string
	value     string
	valueType ValueType
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewEventSetting(eventID uint, namespace, key string, valueType ValueType) (*EventSetting, error) {
	if eventID == 0 {
		return nil, fmt.Errorf("event id is required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if key == "" {
		return nil, ErrInvalidSettingKey
	}
	if !valueType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValueType, valueType)
	}

	now := biztime.NowUTC()
	return &EventSetting{
		eventID:   eventID,
		namespace: namespace,
		key:       key,
		valueType: valueType,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructEventSetting reconstructs an EventSetting from persistence layer
func ReconstructEventSetting(
	id, eventID uint,
	namespace, key, value string,
	valueType ValueType,
	version int,
	createdAt, updatedAt time.Time,
) *EventSetting {
	return &EventSetting{
		id:        id,
		eventID:   eventID,
		namespace: namespace,
		key:       key,
		value:     value,
		valueType: valueType,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *EventSetting) ID() uint             { return s.id }
func (s *EventSetting) EventID() uint        { return s.eventID }
func (s *EventSetting) Namespace() string    { return s.namespace }
func (s *EventSetting) Key() string          { return s.key }
func (s *EventSetting) Value() string        { return s.value }
func (s *EventSetting) ValueType() ValueType { return s.valueType }
func (s *EventSetting) Version() int         { return s.version }
func (s *EventSetting) CreatedAt() time.Time { return s.createdAt }
func (s *EventSetting) UpdatedAt() time.Time { return s.updatedAt }

func (s *EventSetting) SetID(id uint) {
	s.id = id
}

// SetValue parses raw according to the value type and stores its canonical
// form. An empty raw value clears the setting.
func (s *EventSetting) SetValue(raw string) error {
	canonical, err := canonicalize(s.valueType, raw)
	if err != nil {
		return err
	}
	if canonical == s.value {
		return nil
	}
	s.value = canonical
	s.version++
	s.updatedAt = biztime.NowUTC()
	return nil
}

func canonicalize(t ValueType, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	switch t {
	case ValueTypeBool:
		b, err := ParseBool(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
		}
		return strconv.FormatBool(b), nil
	case ValueTypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
		}
		return strconv.Itoa(n), nil
	case ValueTypeDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a decimal number", ErrInvalidValue, raw)
		}
		return d.String(), nil
	case ValueTypeJSON:
		if !json.Valid([]byte(raw)) {
			return "", fmt.Errorf("%w: invalid JSON", ErrInvalidValue)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// ParseBool accepts the spellings used by HTML forms and stored settings.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func (s *EventSetting) HasValue() bool {
	return s.value != ""
}

func (s *EventSetting) BoolValue() (bool, error) {
	return ParseBool(s.value)
}

func (s *EventSetting) IntValue() (int, error) {
	if s.value == "" {
		return 0, nil
	}
	return strconv.Atoi(s.value)
}

func (s *EventSetting) DecimalValue() (decimal.Decimal, error) {
	if s.value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.value)
}

func (s *EventSetting) JSONValue(target interface{}) error {
	if s.value == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.value), target)
}
