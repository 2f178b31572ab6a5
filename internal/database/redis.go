package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no address is configured or the server does
// not answer. Callers treat a nil client as "no revocation store".
func ConnectRedis(addr, password string, logger *log.Logger) *redis.Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if logger == nil {
		logger = log.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Printf("[Session] Redis unavailable at %s, sign-out revocation disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}

	logger.Printf("[Session] Connected to Redis at %s", addr)
	return client
}
