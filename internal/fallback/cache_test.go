package fallback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCache_GetSet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "tell me a joke")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "tell me a joke", "Why did the cart roll away?"))

	reply, err := cache.Get(ctx, "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, "Why did the cart roll away?", reply)

	ttl := mr.TTL(cacheKey("tell me a joke"))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, 6*time.Minute)
}

func TestRedisCache_Expires(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "hmm", "answer"))
	mr.FastForward(10 * time.Minute)

	_, err := cache.Get(ctx, "hmm")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheKey_Stable(t *testing.T) {
	assert.Equal(t, cacheKey("hmm"), cacheKey("hmm"))
	assert.NotEqual(t, cacheKey("hmm"), cacheKey("hmm?"))
	assert.Contains(t, cacheKey("hmm"), "fallback:")
}

func TestCached_HitSkipsDelegate(t *testing.T) {
	cache, _ := setupTestRedis(t)
	next := &delegateMock{text: "generated"}
	c := NewCached(next, cache, zap.NewNop())

	first, err := c.Reply(context.Background(), "tell me a joke")
	require.NoError(t, err)
	second, err := c.Reply(context.Background(), "tell me a joke")
	require.NoError(t, err)

	assert.Equal(t, "generated", first)
	assert.Equal(t, "generated", second)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	cache, mr := setupTestRedis(t)
	next := &delegateMock{err: ErrUnavailable}
	c := NewCached(next, cache, zap.NewNop())

	_, err := c.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, mr.Exists(cacheKey("tell me a joke")))
}

func TestCached_RedisDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	next := &delegateMock{text: "generated"}
	c := NewCached(next, cache, zap.NewNop())

	text, err := c.Reply(context.Background(), "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
}

func TestCached_CoalescesConcurrentRequests(t *testing.T) {
	cache, _ := setupTestRedis(t)
	next := &delegateMock{text: "generated", wait: make(chan struct{})}
	c := NewCached(next, cache, zap.NewNop())

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Reply(context.Background(), "tell me a joke")
		}(i)
	}

	// let every goroutine reach the in-flight call before releasing it
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(next.wait)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "generated", r)
	}
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCached_LeavingCallerDoesNotCancelSharedCall(t *testing.T) {
	cache, _ := setupTestRedis(t)
	next := &delegateMock{text: "generated", wait: make(chan struct{})}
	c := NewCached(next, cache, zap.NewNop())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Reply(firstCtx, "tell me a joke")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	secondText := make(chan string, 1)
	go func() {
		text, _ := c.Reply(context.Background(), "tell me a joke")
		secondText <- text
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	err := <-firstErr
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(next.wait)
	assert.Equal(t, "generated", <-secondText)
	assert.Equal(t, int32(1), next.calls.Load())
}
