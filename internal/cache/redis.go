package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore implements Store on a Redis client. Every key is namespaced
// under a prefix so the instance can share a database with other services.
type redisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed cache store with the given key prefix.
func NewRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "query-cache").Logger(),
	}
}

func (s *redisStore) key(name string) string {
	var b strings.Builder
	b.Grow(len(s.prefix) + 1 + len(name))
	b.WriteString(s.prefix)
	b.WriteString(":")
	b.WriteString(name)
	return b.String()
}

// GetJSON decodes a cached entry into out. The bool reports a hit.
func (s *redisStore) GetJSON(ctx context.Context, name string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry behaves like a miss; the caller re-fetches.
		s.logger.Warn().Err(err).Str("name", name).Msg("dropping undecodable cache entry")
		_ = s.client.Del(ctx, s.key(name)).Err()
		return false, nil
	}

	return true, nil
}

// SetJSON stores a JSON-encoded entry with a TTL.
func (s *redisStore) SetJSON(ctx context.Context, name string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.key(name), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Invalidate removes the named entries. A name ending in "*" removes every
// entry matching the prefix, via SCAN so large keyspaces are not blocked.
func (s *redisStore) Invalidate(ctx context.Context, names ...string) error {
	var exact []string
	for _, name := range names {
		if strings.HasSuffix(name, "*") {
			if err := s.deletePattern(ctx, name); err != nil {
				return err
			}
			continue
		}
		exact = append(exact, s.key(name))
	}

	if len(exact) > 0 {
		if err := s.client.Del(ctx, exact...).Err(); err != nil {
			return fmt.Errorf("cache invalidation failed: %w", err)
		}
	}

	s.logger.Debug().Strs("names", names).Msg("cache entries invalidated")
	return nil
}

func (s *redisStore) deletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.key(pattern), 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache invalidation failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
