// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Backend names reported in Stats.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string
	Prefix   string
	TTL      time.Duration
	// Fallback makes New return a memory cache when Redis is unreachable
	// instead of failing.
	Fallback bool
}

// New creates a cache for cfg. Without a RedisURL the cache is in-process.
func New(cfg Config, logger *slog.Logger) (Cache, error) {
	if cfg.RedisURL == "" {
		return newMemory(cfg), nil
	}

	opts := DefaultRedisOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	if cfg.TTL > 0 {
		opts.DefaultTTL = cfg.TTL
	}

	rc, err := NewRedisCache(opts)
	if err != nil {
		if !cfg.Fallback {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		if logger != nil {
			logger.Warn("redis unavailable, using in-memory cache", "error", err)
		}
		return newMemory(cfg), nil
	}
	return rc, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      cfg.TTL,
		CleanupInterval: time.Minute,
	})
}
