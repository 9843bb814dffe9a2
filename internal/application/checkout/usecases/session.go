package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orris-inc/ticketry/internal/domain/payment"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// SessionStore keeps the checkout session bags.
type SessionStore interface {
	Load(ctx context.Context, id string) (map[string]string, error)
	Save(ctx context.Context, id string, values map[string]string) error
	Delete(ctx context.Context, id string) error
}

// SessionManager loads the checkout session named by the visitor's cookie
// and writes it back after the request.
type SessionManager struct {
	store  SessionStore
	logger logger.Interface
}

func NewSessionManager(store SessionStore, logger logger.Interface) *SessionManager {
	return &SessionManager{store: store, logger: logger}
}

// Open returns the stored session for id. A missing or malformed id starts a
// new session with a fresh random id.
func (m *SessionManager) Open(ctx context.Context, id string) (*payment.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.NewSession(uuid.NewString(), nil), nil
	}

	values, err := m.store.Load(ctx, id)
	if err != nil {
		m.logger.Errorw("failed to load checkout session", "error", err)
		return nil, apperrors.NewUnavailableError("checkout session is temporarily unavailable")
	}
	return payment.NewSession(id, values), nil
}

// Save is a no-op for sessions nobody changed.
func (m *SessionManager) Save(ctx context.Context, s *payment.Session) error {
	if s == nil || !s.Modified() {
		return nil
	}
	if err := m.store.Save(ctx, s.ID(), s.Values()); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	s.MarkSaved()
	return nil
}

func (m *SessionManager) Destroy(ctx context.Context, s *payment.Session) error {
	if err := m.store.Delete(ctx, s.ID()); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}
