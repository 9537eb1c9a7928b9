// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("cache: store is closed")

const (
	PrefixRate      = "rate:"
	DefaultTimeout  = 5 * time.Second
	RetryAttempts   = 2
	RetryDelay      = 50 * time.Millisecond
	CleanupInterval = 1 * time.Minute
)

// Store keeps sliding-window request counters keyed by client.
// Implementations must be safe for concurrent use.
type Store interface {
	// Increment records one hit at timestamp (unix microseconds, exact as a
	// float64 sorted-set score).
	Increment(ctx context.Context, key string, timestamp int64) error
	// CleanAndCount drops hits older than windowStart and returns how many remain.
	CleanAndCount(ctx context.Context, key string, windowStart int64) (int64, error)
	// Expire sets how long an idle key is kept.
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Close() error
}

// Ensure implementations satisfy Store
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
