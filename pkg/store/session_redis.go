package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"insuria/internal/util"
)

const sessionKeyPrefix = "insuria:session:"

// RedisSessionStore keeps session markers in Redis with TTL. The stored
// value is just "1"; presence of the key is the whole signed-in state.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(addr, password string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// NewSession writes a token marker with TTL.
func (s *RedisSessionStore) NewSession() (string, error) {
	token := util.NewID()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Valid reports whether the token marker exists.
func (s *RedisSessionStore) Valid(token string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the token marker.
func (s *RedisSessionStore) Delete(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
