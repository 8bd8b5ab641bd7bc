package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ioTimeout = 5 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout applies to dial, reads and writes. Default 5s.
	Timeout time.Duration
}

func (c Config) options() *redis.Options {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = ioTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Open returns a client that has answered PING. Sessions are useless
// without the store, so a dead server fails startup rather than first login.
func Open(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
