// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements Store on Redis sorted sets, one per key, scored by
// hit timestamp. Members carry a sequence suffix so hits sharing a
// timestamp are counted separately.
type RedisStore struct {
	client *redis.Client
	seq    atomic.Uint64
	closed bool
	mu     sync.RWMutex
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// withRetry runs fn up to RetryAttempts times with a per-attempt timeout.
func (s *RedisStore) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	var lastErr error
	for i := 0; i < RetryAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		err := fn(timeoutCtx)
		cancel()

		if err == nil {
			return nil
		}

		lastErr = err
		if i < RetryAttempts-1 {
			time.Sleep(RetryDelay)
		}
	}
	return lastErr
}

func (s *RedisStore) Increment(ctx context.Context, key string, timestamp int64) error {
	member := strconv.FormatInt(timestamp, 10) + "-" + strconv.FormatUint(s.seq.Add(1), 10)
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.client.ZAdd(ctx, key, &redis.Z{
			Score:  float64(timestamp),
			Member: member,
		}).Err()
	})
}

func (s *RedisStore) CleanAndCount(ctx context.Context, key string, windowStart int64) (int64, error) {
	var count int64
	err := s.withRetry(ctx, func(ctx context.Context) error {
		pipe := s.client.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(windowStart, 10))
		card := pipe.ZCard(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		count = card.Val()
		return nil
	})
	return count, err
}

func (s *RedisStore) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.client.Expire(ctx, key, expiration).Err()
	})
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.client.Close()
}
