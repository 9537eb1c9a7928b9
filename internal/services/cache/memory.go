// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	closed  bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type rateWindow struct {
	timestamps []int64
	expiration time.Time
}

// NewMemoryStore creates a new in-memory store and starts its cleanup loop.
func NewMemoryStore() *MemoryStore {
	ctx, cancel := context.WithCancel(context.Background())

	store := &MemoryStore{
		windows: make(map[string]*rateWindow),
		cancel:  cancel,
	}

	store.wg.Add(1)
	go func() {
		defer store.wg.Done()
		store.cleanupLoop(ctx)
	}()

	return store
}

func (s *MemoryStore) Increment(ctx context.Context, key string, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	w, ok := s.windows[key]
	if !ok {
		w = &rateWindow{}
		s.windows[key] = w
	}
	w.timestamps = append(w.timestamps, timestamp)
	return nil
}

func (s *MemoryStore) CleanAndCount(ctx context.Context, key string, windowStart int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	w, ok := s.windows[key]
	if !ok {
		return 0, nil
	}
	if !w.expiration.IsZero() && time.Now().After(w.expiration) {
		delete(s.windows, key)
		return 0, nil
	}

	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts >= windowStart {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	return int64(len(kept)), nil
}

func (s *MemoryStore) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if w, ok := s.windows[key]; ok {
		w.expiration = time.Now().Add(expiration)
	}
	return nil
}

// Close stops the cleanup loop and drops all counters.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	s.windows = make(map[string]*rateWindow)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.windows {
		if !w.expiration.IsZero() && now.After(w.expiration) {
			delete(s.windows, key)
		}
	}
}
