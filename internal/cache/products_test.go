package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/transport"
)

type memClient struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newMem() *memClient {
	return &memClient{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memClient) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memClient) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (m *memClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func sample() *transport.ProductDetail {
	enable := true
	return &transport.ProductDetail{
		ID:       "3f7f7a8e-8b0a-4b55-9d7a-1f4f3c5b9a10",
		Name:     "desk",
		Price:    100,
		Enable:   &enable,
		Colors:   []string{"c1"},
		Spec:     []string{"s1"},
		Category: "家具",
		Tags:     []transport.TagRef{{ID: "t1", Name: "熱銷"}},
	}
}

func TestProductCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := newMem()
	c := NewProductCache(mem, time.Minute)

	_, hit, err := c.Get(ctx, sample().ID)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, sample()))
	assert.Equal(t, time.Minute, mem.ttl[productKey(sample().ID)])

	got, hit, err := c.Get(ctx, sample().ID)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, sample(), got)

	require.NoError(t, c.Invalidate(ctx, sample().ID))
	_, hit, err = c.Get(ctx, sample().ID)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestProductCache_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewProductCache(rdb, time.Minute)
	require.NoError(t, c.Set(ctx, sample()))
	t.Cleanup(func() { _ = c.Invalidate(ctx, sample().ID) })

	got, hit, err := c.Get(ctx, sample().ID)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, sample().Tags, got.Tags)
}
