package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{"valid", minimalDef{id: "banktransfer", name: "Bank transfer"}, nil},
		{"nil", nil, ErrNotImplemented},
		{"empty identifier", minimalDef{id: "", name: "X"}, ErrInvalidIdentifier},
		{"uppercase identifier", minimalDef{id: "Stripe", name: "X"}, ErrInvalidIdentifier},
		{"underscore identifier", minimalDef{id: "sepa_debit", name: "X"}, ErrInvalidIdentifier},
		{"empty verbose name", minimalDef{id: "dummy", name: "  "}, ErrNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.def)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrNotImplemented)
		})
	}
}

func TestRegistry_OrderAndDuplicates(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(minimalDef{id: "b", name: "B"}, minimalDef{id: "a", name: "A"})

	err := r.Register(minimalDef{id: "a", name: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)

	var ids []string
	for _, d := range r.Definitions() {
		ids = append(ids, d.Identifier())
	}
	assert.Equal(t, []string{"b", "a"}, ids)

	d, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", d.VerboseName())

	assert.Panics(t, func() { r.MustRegister(minimalDef{id: "", name: "x"}) })
}
