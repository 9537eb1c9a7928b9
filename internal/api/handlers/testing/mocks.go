// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package testing

import (
	"context"
	"sync/atomic"

	"github.com/autobrr/mediaweb/internal/types"
)

// MockFetcher implements configapi.Fetcher for testing
type MockFetcher struct {
	FetchConfigFunc func(ctx context.Context) (types.ConfigResource, error)
	calls           atomic.Int32
}

// FetchConfig implements the fetcher method
func (m *MockFetcher) FetchConfig(ctx context.Context) (types.ConfigResource, error) {
	m.calls.Add(1)
	if m.FetchConfigFunc != nil {
		return m.FetchConfigFunc(ctx)
	}
	return types.ConfigResource{}, nil
}

// Calls returns how many times FetchConfig ran.
func (m *MockFetcher) Calls() int {
	return int(m.calls.Load())
}
