package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis for the few shared counters the API keeps.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings with a 5s budget.
func NewClient(addr, password string, db int, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logger.Info("redis connected", zap.String("addr", addr))
	return &Client{rdb: rdb, logger: logger}, nil
}

// CheckRateLimit counts a hit in a fixed window and reports whether it is
// still within limit.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
