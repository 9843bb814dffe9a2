package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

func TestControlToken_IssueAndVerify(t *testing.T) {
	svc := NewControlTokenService("s3cr3t")

	token, err := svc.Issue("alice", "demo", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Operator)
	assert.Equal(t, "demo", claims.Organizer)
	assert.Equal(t, "alice", claims.Subject)
}

func TestControlToken_Rejects(t *testing.T) {
	svc := NewControlTokenService("s3cr3t")
	token, err := svc.Issue("alice", "", time.Minute)
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewControlTokenService("rotated").Verify(token)
		assert.ErrorIs(t, err, ErrInvalidControlToken)
	})

	t.Run("expired", func(t *testing.T) {
		restore := biztime.SetNowFunc(func() time.Time { return time.Now().Add(2 * time.Minute) })
		defer restore()
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidControlToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidControlToken)
	})

	t.Run("unconfigured", func(t *testing.T) {
		_, err := NewControlTokenService("").Verify(token)
		assert.ErrorIs(t, err, ErrInvalidControlToken)
	})
}

func TestControlToken_IssueValidation(t *testing.T) {
	_, err := NewControlTokenService("").Issue("alice", "", time.Hour)
	assert.Error(t, err)
	_, err = NewControlTokenService("s3cr3t").Issue("", "", time.Hour)
	assert.Error(t, err)
	_, err = NewControlTokenService("s3cr3t").Issue("alice", "", 0)
	assert.Error(t, err)
}
