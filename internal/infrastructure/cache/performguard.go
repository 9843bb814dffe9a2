package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

const (
	performKeyPrefix   = "checkout:perform:"
	performInProgress  = "in_progress"
	performCompleted   = "completed"
	DefaultPerformLock = 30 * time.Second
	// PerformCompletedTTL bounds how long a finished perform is remembered.
	PerformCompletedTTL = 24 * time.Hour
)

var ErrPerformInProgress = payment.ErrPerformInProgress

// releaseScript deletes the marker only while it still carries the caller's
// token, so a holder whose marker expired cannot drop a newer one.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisPerformGuard makes checkout_perform run at most once per order across
// instances. The in-progress marker holds a per-attempt token and has a
// short TTL so a crashed request does not block the order forever.
type RedisPerformGuard struct {
	client  *redis.Client
	lockTTL time.Duration
}

func NewRedisPerformGuard(client *redis.Client, lockTTL time.Duration) *RedisPerformGuard {
	if lockTTL <= 0 {
		lockTTL = DefaultPerformLock
	}
	return &RedisPerformGuard{client: client, lockTTL: lockTTL}
}

// Acquire reports done=true when the order was already performed. It
// returns ErrPerformInProgress when another caller holds the marker. The
// token identifies this attempt to Release.
func (g *RedisPerformGuard) Acquire(ctx context.Context, orderKey string) (string, bool, error) {
	key := performKeyPrefix + orderKey

	status, err := g.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false, fmt.Errorf("failed to read perform state: %w", err)
	}
	if status == performCompleted {
		return "", true, nil
	}

	token := newLeaseToken()
	acquired, err := g.client.SetNX(ctx, key, token, g.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire perform lock: %w", err)
	}
	if !acquired {
		return "", false, ErrPerformInProgress
	}

	return token, false, nil
}

func (g *RedisPerformGuard) Complete(ctx context.Context, orderKey string) error {
	if err := g.client.Set(ctx, performKeyPrefix+orderKey, performCompleted, PerformCompletedTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark perform completed: %w", err)
	}
	return nil
}

// Release drops the in-progress marker of token so the perform can be
// retried. Completed markers and markers of other attempts are left alone.
func (g *RedisPerformGuard) Release(ctx context.Context, orderKey, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, g.client, []string{performKeyPrefix + orderKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release perform lock: %w", err)
	}
	return nil
}

func newLeaseToken() string {
	return performInProgress + ":" + uuid.NewString()
}

type guardEntry struct {
	status  string
	token   string
	expires time.Time
}

// MemoryPerformGuard is the in-process counterpart of RedisPerformGuard.
// Expired entries are swept on Acquire.
type MemoryPerformGuard struct {
	mu        sync.Mutex
	entries   map[string]guardEntry
	lockTTL   time.Duration
	nextSweep time.Time
}

func NewMemoryPerformGuard(lockTTL time.Duration) *MemoryPerformGuard {
	if lockTTL <= 0 {
		lockTTL = DefaultPerformLock
	}
	return &MemoryPerformGuard{entries: make(map[string]guardEntry), lockTTL: lockTTL}
}

func (g *MemoryPerformGuard) Acquire(_ context.Context, orderKey string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := biztime.NowUTC()
	g.sweep(now)
	if e, ok := g.entries[orderKey]; ok && now.Before(e.expires) {
		if e.status == performCompleted {
			return "", true, nil
		}
		return "", false, ErrPerformInProgress
	}
	token := newLeaseToken()
	g.entries[orderKey] = guardEntry{status: performInProgress, token: token, expires: now.Add(g.lockTTL)}
	return token, false, nil
}

func (g *MemoryPerformGuard) Complete(_ context.Context, orderKey string) error {
	g.mu.Lock()
	g.entries[orderKey] = guardEntry{status: performCompleted, expires: biztime.NowUTC().Add(PerformCompletedTTL)}
	g.mu.Unlock()
	return nil
}

func (g *MemoryPerformGuard) Release(_ context.Context, orderKey, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.entries[orderKey]; ok && e.status == performInProgress && e.token == token {
		delete(g.entries, orderKey)
	}
	return nil
}

// Len is the number of entries held, expired or not.
func (g *MemoryPerformGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// sweep drops expired entries at most once per lock TTL. Callers hold mu.
func (g *MemoryPerformGuard) sweep(now time.Time) {
	if now.Before(g.nextSweep) {
		return
	}
	g.nextSweep = now.Add(g.lockTTL)
	for k, e := range g.entries {
		if !now.Before(e.expires) {
			delete(g.entries, k)
		}
	}
}
