package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/pageza/receitas/backend/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis used for the change feed and rate
// limiting. REDIS_URL takes precedence over host and port.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", opts.Addr, err)
	}

	log.Printf("[Redis] connected to %s (db %d)", opts.Addr, opts.DB)
	return client, nil
}
