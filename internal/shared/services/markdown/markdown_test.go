package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSafeHTML(t *testing.T) {
	svc := NewService()

	out, err := svc.ToSafeHTML("**IBAN** DE02120300000000202051\n<script>alert(1)</script>")
	require.NoError(t, err)

	assert.Contains(t, string(out), "<strong>IBAN</strong>")
	assert.NotContains(t, string(out), "<script>")
}

func TestToPlainText(t *testing.T) {
	svc := NewService()
	assert.Equal(t, "Bank: Example", svc.ToPlainText("  <b>Bank:</b> Example "))
}
