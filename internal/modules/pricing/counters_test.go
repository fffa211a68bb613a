package pricing

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounters(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCounters()
	c.now = func() time.Time { return now }

	n, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, c.Set(ctx, "k", 3, time.Hour))
	n, _ = c.Get(ctx, "k")
	assert.Equal(t, 3, n)

	now = now.Add(time.Hour)
	n, _ = c.Get(ctx, "k")
	assert.Equal(t, 0, n, "entry expires at its ttl")

	require.NoError(t, c.Set(ctx, "forever", 7, 0))
	now = now.Add(1000 * time.Hour)
	n, _ = c.Get(ctx, "forever")
	assert.Equal(t, 7, n)

	var nilCounters *MemoryCounters
	_, err = nilCounters.Get(ctx, "k")
	assert.Error(t, err)
}

func TestCounterKeys(t *testing.T) {
	assert.Equal(t, "pricing:visits:sess-1:PR101", visitKey("sess-1", "PR101"))
	assert.Equal(t, "pricing:searches:PR101", searchKey("PR101"))
}

func TestRedisCounters(t *testing.T) {
	redisAddr := os.Getenv("SKYFARE_TEST_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("SKYFARE_TEST_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ctx := context.Background()
	c := NewRedisCounters(rdb)
	key := fmt.Sprintf("pricing:test:%d", time.Now().UnixNano())
	defer rdb.Del(ctx, key)

	n, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, c.Set(ctx, key, 4, time.Minute))
	n, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	ttl, err := rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
