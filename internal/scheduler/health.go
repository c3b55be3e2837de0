package scheduler

import (
	"context"
	"time"

	"revenue_engine_backend/platform/config"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisChecker reports whether the queue broker answers.
type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(cfg config.SchedulerConfig) (*RedisChecker, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, eris.Wrap(err, "scheduler: parse redis url")
	}
	opt.TLSConfig = tlsConfig(opt.TLSConfig, cfg.GetRedisTLSInsecure())
	return &RedisChecker{client: redis.NewClient(opt)}, nil
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *RedisChecker) Close() error {
	return c.client.Close()
}
