package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

type memorySession struct {
	values  map[string]string
	expires time.Time
}

// MemorySessionStore is the single-process session backend used when no
// Redis is configured. Expired sessions are swept on Save, at most once per
// sweep interval.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memorySession
	ttl       time.Duration
	nextSweep time.Time
}

const memorySweepInterval = time.Minute

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
	}
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return map[string]string{}, nil
	}
	if biztime.NowUTC().After(sess.expires) {
		delete(s.sessions, id)
		return map[string]string{}, nil
	}
	return copyValues(sess.values), nil
}

func (s *MemorySessionStore) Save(_ context.Context, id string, values map[string]string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := biztime.NowUTC()
	s.sweep(now)
	if len(values) == 0 {
		delete(s.sessions, id)
		return nil
	}
	s.sessions[id] = memorySession{
		values:  copyValues(values),
		expires: now.Add(s.ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len is the number of sessions held, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	s.nextSweep = now.Add(memorySweepInterval)
	for id, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, id)
		}
	}
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
