package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	visitCounterTTL  = time.Hour
	searchCounterTTL = 24 * time.Hour
)

// CounterCache stores approximate request counters. Lost updates between concurrent
// requests are acceptable.
type CounterCache interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int, ttl time.Duration) error
}

func visitKey(sessionID, flightNumber string) string {
	return fmt.Sprintf("pricing:visits:%s:%s", sessionID, flightNumber)
}

func searchKey(flightNumber string) string {
	return fmt.Sprintf("pricing:searches:%s", flightNumber)
}

type RedisCounters struct {
	rdb *redis.Client
}

func NewRedisCounters(rdb *redis.Client) *RedisCounters {
	return &RedisCounters{rdb: rdb}
}

// Get returns 0 for a missing key.
func (c *RedisCounters) Get(ctx context.Context, key string) (int, error) {
	n, err := c.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (c *RedisCounters) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, strconv.Itoa(value), ttl).Err()
}

// MemoryCounters is an in-process CounterCache for single-node runs without Redis.
type MemoryCounters struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     int
	expiresAt time.Time
}

var errNilCounters = errors.New("counter cache not configured")

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCounters) Get(_ context.Context, key string) (int, error) {
	if c == nil {
		return 0, errNilCounters
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return 0, nil
	}
	return e.value, nil
}

func (c *MemoryCounters) Set(_ context.Context, key string, value int, ttl time.Duration) error {
	if c == nil {
		return errNilCounters
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}
