// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package view

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/autobrr/mediaweb/internal/services/configapi"
	"github.com/autobrr/mediaweb/internal/types"
)

// State is what the config template reads. RadarrAPIKey holds the backend
// value as served, nil when absent.
type State struct {
	Config       types.ConfigResource `json:"config"`
	Loaded       bool                 `json:"loaded"`
	RadarrAPIKey any                  `json:"radarrApiKey,omitempty"`
}

// RadarrAPIKeyText renders RadarrAPIKey for a text input: strings as they
// are, other values as JSON, absent as "".
func (s State) RadarrAPIKeyText() string {
	switch key := s.RadarrAPIKey.(type) {
	case nil:
		return ""
	case string:
		return key
	default:
		data, err := json.Marshal(key)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Outcome reports how one activation ended.
type Outcome struct {
	Config types.ConfigResource
	Err    error
}

// ConfigView fetches the backend configuration and exposes it for rendering.
type ConfigView struct {
	fetcher configapi.Fetcher
	log     zerolog.Logger

	mu    sync.RWMutex
	state State
}

// NewConfigView creates a view with an empty configuration. Call Activate to
// start the fetch.
func NewConfigView(fetcher configapi.Fetcher, logger zerolog.Logger) *ConfigView {
	return &ConfigView{
		fetcher: fetcher,
		log:     logger,
		state: State{
			Config: types.ConfigResource{},
			// TODO: set Loaded once product decides whether it tracks the first successful fetch.
			Loaded: false,
		},
	}
}

// Activate issues one configuration read in the background and returns
// immediately. The returned channel receives exactly one Outcome and is then
// closed. Failures are logged and leave the current state untouched; they are
// never retried.
//
// The read is detached from ctx cancellation and runs until the fetcher
// returns; ctx only contributes its values.
func (v *ConfigView) Activate(ctx context.Context) <-chan Outcome {
	done := make(chan Outcome, 1)
	fetchCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(done)

		config, err := v.fetcher.FetchConfig(fetchCtx)
		if err != nil {
			v.log.Error().Err(err).Msg("Failed to fetch configuration")
			done <- Outcome{Err: err}
			return
		}

		v.apply(config)
		done <- Outcome{Config: config}
	}()

	return done
}

func (v *ConfigView) apply(config types.ConfigResource) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Config = config
	v.state.RadarrAPIKey, _ = config.RadarrAPIKey()
}

// Snapshot returns a copy of the current state.
func (v *ConfigView) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return State{
		Config:       v.state.Config.Clone(),
		Loaded:       v.state.Loaded,
		RadarrAPIKey: v.state.RadarrAPIKey,
	}
}

// Config returns a copy of the current configuration.
func (v *ConfigView) Config() types.ConfigResource {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Config.Clone()
}

// RadarrAPIKey returns the derived key and whether it is present.
func (v *ConfigView) RadarrAPIKey() (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.RadarrAPIKey, v.state.RadarrAPIKey != nil
}
