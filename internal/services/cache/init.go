// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/mediaweb/internal/config"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	CacheTypeRedis  CacheType = "redis"
	CacheTypeMemory CacheType = "memory"
)

// getRedisOptions returns Redis configuration optimized for the current environment
func getRedisOptions(addr string, isDev bool) *redis.Options {
	opts := &redis.Options{
		Addr:            addr,
		MinIdleConns:    1,
		MaxRetries:      RetryAttempts,
		MinRetryBackoff: RetryDelay,
		MaxRetryBackoff: time.Second,
	}

	if isDev {
		opts.PoolSize = 5
		opts.ReadTimeout = 2 * time.Second
		opts.WriteTimeout = 2 * time.Second
		opts.PoolTimeout = 2 * time.Second
		opts.IdleTimeout = 30 * time.Second
	} else {
		opts.PoolSize = 10
		opts.ReadTimeout = DefaultTimeout
		opts.WriteTimeout = DefaultTimeout
		opts.PoolTimeout = DefaultTimeout * 2
		opts.IdleTimeout = time.Minute
	}

	return opts
}

func getCacheType(cfg config.CacheConfig) CacheType {
	switch strings.ToLower(cfg.Type) {
	case "redis":
		return CacheTypeRedis
	case "", "memory":
		return CacheTypeMemory
	default:
		log.Warn().Str("type", cfg.Type).Msg("Unknown cache type specified, defaulting to memory cache")
		return CacheTypeMemory
	}
}

// InitCache returns the configured store. When Redis is unreachable in a
// non-release mode it falls back to memory; in release mode it fails.
func InitCache(ctx context.Context, cfg config.CacheConfig, isDev bool) (Store, error) {
	cacheType := getCacheType(cfg)

	log.Debug().Str("type", string(cacheType)).Msg("Initializing cache")

	if cacheType == CacheTypeMemory {
		return NewMemoryStore(), nil
	}

	opts := getRedisOptions(cfg.RedisAddr(), isDev)

	timeout := DefaultTimeout
	if isDev {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := redis.NewClient(opts)
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		if isDev {
			log.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis connection failed, falling back to memory cache")
			return NewMemoryStore(), nil
		}
		return nil, err
	}

	return NewRedisStore(client), nil
}
