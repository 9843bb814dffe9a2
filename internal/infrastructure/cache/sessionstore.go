package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionKeyPrefix is the Redis key prefix for checkout session bags
	SessionKeyPrefix = "checkout:session:"
	// DefaultSessionTTL is used when no TTL is configured
	DefaultSessionTTL = 24 * time.Hour
)

// RedisSessionStore keeps each checkout session as one Redis hash. Every save
// refreshes the TTL.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{
		client: client,
		prefix: SessionKeyPrefix,
		ttl:    ttl,
	}
}

// Load returns an empty map for unknown or expired sessions.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	values, err := s.client.HGetAll(ctx, s.buildKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session from redis: %w", err)
	}

	return values, nil
}

// Save replaces the stored bag with values.
func (s *RedisSessionStore) Save(ctx context.Context, id string, values map[string]string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}

	key := s.buildKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) == 0 {
			return nil
		}
		fields := make(map[string]interface{}, len(values))
		for k, v := range values {
			fields[k] = v
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}

	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.buildKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) buildKey(id string) string {
	return s.prefix + id
}
