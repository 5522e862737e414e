package redis

import (
	"context"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "media-pipeline:"

// Guard is a redis-backed port.DispatchGuard. Markers expire on their own,
// so a crashed dispatcher never blocks a key for longer than its ttl.
type Guard struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

// NewGuard connects and pings redis
func NewGuard(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Guard, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Guard{rdb: rdb, logger: logger.With("adapter", "RedisDispatchGuard")}, nil
}

func (g *Guard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: guard acquire: %w", domain.ErrUpstreamUnavailable, err)
	}
	if !ok {
		g.logger.Debug("dispatch guard held", slog.String("key", key))
	}
	return ok, nil
}

func (g *Guard) Release(ctx context.Context, key string) error {
	if err := g.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: guard release: %w", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (g *Guard) Close() error {
	return g.rdb.Close()
}
