package payment

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldClean(t *testing.T) {
	choice := Field{Key: "c", Type: FieldChoice, Choices: []Choice{{Value: "a"}, {Value: "b"}}}
	tests := []struct {
		name    string
		field   Field
		in      string
		want    string
		wantErr error
	}{
		{"bool on", Field{Type: FieldBool}, "on", "true", nil},
		{"bool missing", Field{Type: FieldBool}, "", "false", nil},
		{"bool required", Field{Type: FieldBool, Required: true}, "", "", ErrRequired},
		{"decimal canonical", Field{Type: FieldDecimal}, " 2.50 ", "2.5", nil},
		{"decimal invalid", Field{Type: FieldDecimal}, "2,50", "", ErrInvalidDecimal},
		{"decimal empty optional", Field{Type: FieldDecimal}, "", "", nil},
		{"text required", Field{Type: FieldText, Required: true}, "  ", "", ErrRequired},
		{"choice valid", choice, "b", "b", nil},
		{"choice invalid", choice, "z", "", ErrInvalidChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Clean(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldClean_EmailAndCheck(t *testing.T) {
	email := Field{Type: FieldEmail}
	_, err := email.Clean("not-an-address")
	assert.Error(t, err)
	v, err := email.Clean("dummy@example.org")
	require.NoError(t, err)
	assert.Equal(t, "dummy@example.org", v)

	errOdd := errors.New("odd")
	checked := Field{Type: FieldText, Check: func(s string) error {
		if len(s)%2 == 1 {
			return errOdd
		}
		return nil
	}}
	_, err = checked.Clean("abc")
	assert.ErrorIs(t, err, errOdd)
}

func TestFieldsExtend(t *testing.T) {
	merged := BaseSettingsFields().Extend(Fields{
		{Key: KeyFeeAbs, Type: FieldText},
		{Key: "bank_details", Type: FieldTextarea},
	})
	assert.Equal(t, []string{KeyEnabled, KeyFeeAbs, KeyFeePercent, "bank_details"}, merged.Keys())

	fee, ok := merged.Lookup(KeyFeeAbs)
	require.True(t, ok)
	assert.Equal(t, FieldDecimal, fee.Type)
}

func TestForm(t *testing.T) {
	fields := Fields{
		{Key: "holder", Label: "Holder", Type: FieldText, Required: true},
		{Key: "newsletter", Label: "Newsletter", Type: FieldBool},
	}

	unbound := NewForm("p", fields, map[string]string{"holder": "Jane"}, nil)
	assert.False(t, unbound.IsValid())
	assert.Equal(t, "Jane", unbound.Value("holder"))
	assert.Nil(t, unbound.CleanedData())

	bound := NewForm("p", fields, nil, url.Values{})
	assert.False(t, bound.IsValid())
	assert.Equal(t, []string{"Holder: this field is required"}, bound.ErrorList())
	assert.Nil(t, bound.CleanedData())

	ok := NewForm("p", fields, nil, url.Values{"p-holder": {"Jane"}, "p-newsletter": {"on"}})
	require.True(t, ok.IsValid())
	assert.Equal(t, map[string]string{"holder": "Jane", "newsletter": "true"}, ok.CleanedData())

	bare := NewForm("", fields, nil, url.Values{"holder": {"Jane"}})
	assert.Equal(t, "holder", bare.InputName("holder"))
	assert.True(t, bare.IsValid())
}
