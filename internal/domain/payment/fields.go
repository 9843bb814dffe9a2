package payment

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldType string

const (
	FieldBool     FieldType = "bool"
	FieldDecimal  FieldType = "decimal"
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldChoice   FieldType = "choice"
	FieldEmail    FieldType = "email"
)

// Settings keys every provider carries.
const (
	KeyEnabled    = "_enabled"
	KeyFeeAbs     = "_fee_abs"
	KeyFeePercent = "_fee_percent"
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one input of a settings or checkout form. Rules holds
// validator tags applied to non-empty values, Check an extra test.
type Field struct {
	Key      string             `json:"key"`
	Type     FieldType          `json:"type"`
	Label    string             `json:"label"`
	HelpText string             `json:"help_text,omitempty"`
	Required bool               `json:"required"`
	Choices  []Choice           `json:"choices,omitempty"`
	Rules    string             `json:"-"`
	Check    func(string) error `json:"-"`
}

var validate = validator.New()

// Clean normalizes raw input. Booleans come back as "true" or "false",
// decimals in canonical notation.
func (f Field) Clean(raw string) (string, error) {
	v := strings.TrimSpace(raw)

	if f.Type == FieldBool {
		b := parseBool(v)
		if f.Required && !b {
			return "", ErrRequired
		}
		if b {
			return "true", nil
		}
		return "false", nil
	}

	if v == "" {
		if f.Required {
			return "", ErrRequired
		}
		return "", nil
	}

	switch f.Type {
	case FieldDecimal:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return "", ErrInvalidDecimal
		}
		v = d.String()
	case FieldChoice:
		if !f.hasChoice(v) {
			return "", ErrInvalidChoice
		}
	case FieldEmail:
		if err := validate.Var(v, "email"); err != nil {
			return "", ErrInvalidEmail
		}
	}

	if f.Rules != "" {
		if err := validate.Var(v, f.Rules); err != nil {
			return "", ruleError(err)
		}
	}
	if f.Check != nil {
		if err := f.Check(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (f Field) hasChoice(v string) bool {
	for _, c := range f.Choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func ruleError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "max":
			return FieldError{Format: msgMaxLength, Args: []any{fe.Param()}}
		case "min":
			return FieldError{Format: msgMinLength, Args: []any{fe.Param()}}
		case "len":
			return FieldError{Format: msgExactLength, Args: []any{fe.Param()}}
		}
		return FieldError{Format: msgFailedCheck, Args: []any{fe.Tag()}}
	}
	return err
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// Fields is an ordered list of form fields.
type Fields []Field

func (fs Fields) Keys() []string {
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key
	}
	return keys
}

func (fs Fields) Lookup(key string) (Field, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Extend appends extra after fs. Extras reusing a key already present are
// dropped, so the base fields cannot be replaced or removed.
func (fs Fields) Extend(extra Fields) Fields {
	out := make(Fields, 0, len(fs)+len(extra))
	out = append(out, fs...)
	for _, f := range extra {
		if _, taken := out.Lookup(f.Key); taken {
			continue
		}
		out = append(out, f)
	}
	return out
}

// BaseSettingsFields are the settings every provider has, in display order.
func BaseSettingsFields() Fields {
	return Fields{
		{
			Key:   KeyEnabled,
			Type:  FieldBool,
			Label: "Enable payment method",
		},
		{
			Key:      KeyFeeAbs,
			Type:     FieldDecimal,
			Label:    "Additional fee",
			HelpText: "Absolute value",
		},
		{
			Key:      KeyFeePercent,
			Type:     FieldDecimal,
			Label:    "Additional fee",
			HelpText: "Percentage",
		},
	}
}
