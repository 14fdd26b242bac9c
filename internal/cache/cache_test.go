package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newMemory(t *testing.T) (*MemoryCache, *manualClock) {
	t.Helper()
	clk := &manualClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(WithClock(clk.Now), WithSweepInterval(time.Hour))
	t.Cleanup(func() { _ = c.Close() })
	return c, clk
}

func newRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, "test", zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, clk := newMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("2"), 0))

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	clk.Advance(2 * time.Minute)

	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	ok, _ := c.Exists(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c, _ := newMemory(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("abc"), 0))

	v, _ := c.Get(ctx, "a")
	v[0] = 'x'

	again, _ := c.Get(ctx, "a")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCache_GetOrSet(t *testing.T) {
	c, _ := newMemory(t)
	ctx := context.Background()
	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet(ctx, "k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, []byte("computed"), v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrSet(ctx, "other", time.Minute, func() ([]byte, error) { return nil, errors.New("down") })
	assert.EqualError(t, err, "down")
	ok, _ := c.Exists(ctx, "other")
	assert.False(t, ok)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "cart:abc", []byte(`[]`), time.Hour))
	assert.True(t, mr.Exists("test:cart:abc"))

	v, err := c.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)

	require.NoError(t, c.Delete(ctx, "cart:abc"))
	_, err = c.Get(ctx, "cart:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "token:abc", []byte("tok"), time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := c.Exists(ctx, "token:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ClearOnlyOwnPrefix(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:keep", "1"))

	require.NoError(t, c.Clear(ctx))

	assert.False(t, mr.Exists("test:a"))
	assert.True(t, mr.Exists("other:keep"))
}

func TestJSONHelpers(t *testing.T) {
	c, _ := newRedis(t)
	ctx := context.Background()
	type item struct {
		ID  int64 `json:"id"`
		Qty int   `json:"qty"`
	}

	require.NoError(t, SetJSON(ctx, c, "items", []item{{ID: 1, Qty: 2}}, time.Minute))

	var got []item
	require.NoError(t, GetJSON(ctx, c, "items", &got))
	assert.Equal(t, []item{{ID: 1, Qty: 2}}, got)

	assert.ErrorIs(t, GetJSON(ctx, c, "missing", &got), ErrCacheMiss)
}
