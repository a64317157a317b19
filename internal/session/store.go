package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session tokens in the shared cache.
const keyPrefix = "auth_"

// DefaultTTL is the fixed lifetime of a session.
const DefaultTTL = 24 * time.Hour

// RedisSessionStore keeps token -> user id mappings in Redis with TTL.
// Sessions live only in the cache and expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Create generates an opaque token and stores the mapping with expiry.
func (s *RedisSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := keyPrefix + token
	if err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to a user id. Missing, expired and malformed
// tokens are all plain misses; only cache failures are errors.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (int64, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return userID, true, nil
}

// Revoke deletes the mapping and reports whether a session existed.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) (bool, error) {
	deleted, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
