// README: Redis client initialization for pricing counters.
package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns a client, or nil when the server does not answer a ping.
// Pricing runs without counters in that case.
func NewRedis(ctx context.Context, addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
