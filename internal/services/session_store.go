package services

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "session:revoked:"

// SessionStore tracks signed-out tokens until they would have expired anyway.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisSessionStore is a denylist keyed by token id. A nil client turns every
// call into a no-op, so sign-out still succeeds without Redis.
type RedisSessionStore struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedisSessionStore(client *redis.Client, logger *log.Logger) *RedisSessionStore {
	if logger == nil {
		logger = log.Default()
	}
	return &RedisSessionStore{client: client, logger: logger}
}

func (s *RedisSessionStore) isUnavailable() bool {
	return s == nil || s.client == nil
}

func (s *RedisSessionStore) warnUnavailableOnce(err error) {
	if s.warnedUnavailable.CompareAndSwap(false, true) {
		s.logger.Printf("[Session] Redis unavailable, revocation bypassed: %v", err)
	}
}

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.isUnavailable() || tokenID == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err(); err != nil {
		s.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.isUnavailable() || tokenID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, revokedTokenPrefix+tokenID).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	s.warnUnavailableOnce(err)
	return false, err
}
