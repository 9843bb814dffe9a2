package payment

import (
	"errors"
	"fmt"
	"net/url"
)

// Form binds field descriptors to submitted data or to initial values.
// Input names are the prefix and the field key joined by "-"; an empty
// prefix uses the bare key.
type Form struct {
	prefix  string
	fields  Fields
	initial map[string]string
	data    url.Values

	cleaned map[string]string
	errors  map[string]error
	checked bool
}

// NewForm builds a form. A nil data leaves the form unbound, showing initial.
func NewForm(prefix string, fields Fields, initial map[string]string, data url.Values) *Form {
	return &Form{prefix: prefix, fields: fields, initial: initial, data: data}
}

func (f *Form) Prefix() string { return f.prefix }
func (f *Form) Fields() Fields { return f.fields }
func (f *Form) IsBound() bool  { return f.data != nil }

func (f *Form) InputName(key string) string {
	if f.prefix == "" {
		return key
	}
	return f.prefix + "-" + key
}

// Value is what an input shows: the submitted value on a bound form, the
// initial value otherwise.
func (f *Form) Value(key string) string {
	if f.IsBound() {
		return f.data.Get(f.InputName(key))
	}
	return f.initial[key]
}

// IsValid cleans every field. Unbound forms are never valid.
func (f *Form) IsValid() bool {
	if !f.IsBound() {
		return false
	}
	f.clean()
	return len(f.errors) == 0
}

func (f *Form) clean() {
	if f.checked {
		return
	}
	f.checked = true
	f.cleaned = make(map[string]string, len(f.fields))
	f.errors = make(map[string]error)
	for _, field := range f.fields {
		v, err := field.Clean(f.data.Get(f.InputName(field.Key)))
		if err != nil {
			f.errors[field.Key] = err
			continue
		}
		f.cleaned[field.Key] = v
	}
}

// CleanedData is only populated after IsValid returned true.
func (f *Form) CleanedData() map[string]string {
	if !f.checked || len(f.errors) > 0 {
		return nil
	}
	return f.cleaned
}

// Errors maps field keys to their message.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, err := range f.errors {
		out[k] = err.Error()
	}
	return out
}

// ErrorList returns the errors as "label: message" in field order.
func (f *Form) ErrorList() []string {
	return f.TranslatedErrorList(nil)
}

// TranslatedErrorList is ErrorList with labels and messages passed through
// t. A nil t leaves them untranslated.
func (f *Form) TranslatedErrorList(t func(key string, args ...any) string) []string {
	if t == nil {
		t = func(key string, args ...any) string { return FieldError{Format: key, Args: args}.Error() }
	}
	var out []string
	for _, field := range f.fields {
		err, ok := f.errors[field.Key]
		if !ok {
			continue
		}
		var fe FieldError
		if errors.As(err, &fe) {
			out = append(out, t(field.Label)+": "+t(fe.Format, fe.Args...))
			continue
		}
		out = append(out, t(field.Label)+": "+t(err.Error()))
	}
	return out
}

// FieldError is a validation message kept as format and arguments so it
// can be translated after cleaning.
type FieldError struct {
	Format string
	Args   []any
}

func (e FieldError) Error() string {
	if len(e.Args) == 0 {
		return e.Format
	}
	return fmt.Sprintf(e.Format, e.Args...)
}
