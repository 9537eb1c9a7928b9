// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package types

// ConfigKeyRadarrAPIKey is the only ConfigResource key read by name.
const ConfigKeyRadarrAPIKey = "RadarrApiKey"

// ConfigResource is the configuration object served by the backend at api/config.
// Its shape is owned by the backend and is passed through untouched.
type ConfigResource map[string]any

// Clone returns a shallow copy of the resource. A nil resource clones to an empty one.
func (c ConfigResource) Clone() ConfigResource {
	out := make(ConfigResource, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// RadarrAPIKey returns the RadarrApiKey field verbatim. A missing key or a
// JSON null is reported as absent; any other value is returned unchecked.
func (c ConfigResource) RadarrAPIKey() (any, bool) {
	v, ok := c[ConfigKeyRadarrAPIKey]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// BackendConfig mirrors the fields the media-web backend currently serves.
// The view never validates against it; the CLI uses it for typed output.
type BackendConfig struct {
	RadarrApiKey         string `json:"RadarrApiKey"`
	RadarrEndpoint       string `json:"RadarrEndpoint"`
	SonarrApiKey         string `json:"SonarrApiKey"`
	SonarrEndpoint       string `json:"SonarrEndpoint"`
	WorkerEnabled        bool   `json:"WorkerEnabled"`
	RadarrScannerEnabled bool   `json:"RadarrScannerEnabled"`
	SonarrScannerEnabled bool   `json:"SonarrScannerEnabled"`
}
