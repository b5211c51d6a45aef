package fallback

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrCacheMiss = errors.New("cache miss")

// ReplyCache stores generated replies keyed by utterance
type ReplyCache interface {
	Get(ctx context.Context, utterance string) (string, error)
	Set(ctx context.Context, utterance, reply string) error
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, utterance string) (string, error) {
	reply, err := r.client.Get(ctx, cacheKey(utterance)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return reply, nil
}

func (r RedisCache) Set(ctx context.Context, utterance, reply string) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(utterance), reply, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(utterance string) string {
	return fmt.Sprintf("fallback:%016x", xxhash.Sum64String(utterance))
}

// Cached serves repeated utterances from a ReplyCache and collapses identical
// concurrent requests into one delegate call.
type Cached struct {
	next   Delegate
	cache  ReplyCache
	sfg    singleflight.Group
	logger *zap.Logger
}

func NewCached(next Delegate, cache ReplyCache, logger *zap.Logger) *Cached {
	return &Cached{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (c *Cached) Status() string {
	return Status(c.next)
}

func (c *Cached) Reply(ctx context.Context, utterance string) (string, error) {
	reply, err := c.cache.Get(ctx, utterance)
	if err == nil {
		return reply, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("fallback cache get error", zap.Error(err)) // continue without cache
	}

	ch := c.sfg.DoChan(utterance, func() (interface{}, error) {
		// shared by every merged caller, so one caller leaving must not cancel it
		text, errReply := c.next.Reply(context.WithoutCancel(ctx), utterance)
		if errReply != nil {
			return "", errReply
		}

		setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if errSet := c.cache.Set(setCtx, utterance, text); errSet != nil {
			c.logger.Warn("fallback cache set error", zap.Error(errSet))
		}
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}
