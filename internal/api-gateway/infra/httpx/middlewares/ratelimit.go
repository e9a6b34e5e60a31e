package middlewares

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
)

// redisTimeout bounds each counter round trip so a slow Redis cannot stall
// every request.
const redisTimeout = 100 * time.Millisecond

// RedisLimitCounter shares httprate's sliding-window counters across gateway
// replicas. While Redis is unreachable it counts in process instead.
type RedisLimitCounter struct {
	client       *redis.Client
	prefix       string
	windowLength time.Duration
	fallback     httprate.LimitCounter
}

var _ httprate.LimitCounter = (*RedisLimitCounter)(nil)

func NewRedisLimitCounter(client *redis.Client, prefix string) *RedisLimitCounter {
	return &RedisLimitCounter{client: client, prefix: prefix}
}

func (c *RedisLimitCounter) Config(requestLimit int, windowLength time.Duration) {
	c.windowLength = windowLength
	c.fallback = httprate.NewLocalLimitCounter(windowLength)
	c.fallback.Config(requestLimit, windowLength)
}

func (c *RedisLimitCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *RedisLimitCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	k := c.windowKey(key, currentWindow)
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.IncrBy(ctx, k, int64(amount))
		p.Expire(ctx, k, 3*c.windowLength)
		return nil
	})
	if err != nil {
		slog.Warn("rate limit counter unavailable, counting locally", "error", err)
		return c.fallback.IncrementBy(key, currentWindow, amount)
	}
	return nil
}

func (c *RedisLimitCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	values, err := c.client.MGet(ctx, c.windowKey(key, currentWindow), c.windowKey(key, previousWindow)).Result()
	if err != nil {
		slog.Warn("rate limit counter unavailable, counting locally", "error", err)
		return c.fallback.Get(key, currentWindow, previousWindow)
	}

	curr, err := counterValue(values[0])
	if err != nil {
		return 0, 0, err
	}
	prev, err := counterValue(values[1])
	if err != nil {
		return 0, 0, err
	}
	return curr, prev, nil
}

func (c *RedisLimitCounter) windowKey(key string, window time.Time) string {
	return fmt.Sprintf("%s:ratelimit:%s:%d", c.prefix, key, window.Unix())
}

func counterValue(v any) (int, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("rate limit counter %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("rate limit counter has unexpected type %T", v)
	}
}
