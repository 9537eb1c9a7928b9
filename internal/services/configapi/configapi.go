// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package configapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/autobrr/mediaweb/internal/services/core"
	"github.com/autobrr/mediaweb/internal/types"
)

// Paths resolved against the backend base URL.
const (
	EndpointPath = "api/config"
	HealthPath   = "health"
)

// ErrConfigFetch is returned for every failed configuration read: transport
// errors, non-2xx responses and bodies that are not a JSON object.
type ErrConfigFetch struct {
	Op       string // Operation that failed
	Err      error  // Underlying error
	HttpCode int    // HTTP status code if applicable
}

func (e *ErrConfigFetch) Error() string {
	if e.HttpCode > 0 {
		return fmt.Sprintf("config %s: server returned %s (%d)", e.Op, http.StatusText(e.HttpCode), e.HttpCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("config %s", e.Op)
}

func (e *ErrConfigFetch) Unwrap() error {
	return e.Err
}

// Fetcher reads the configuration resource.
type Fetcher interface {
	FetchConfig(ctx context.Context) (types.ConfigResource, error)
}

// Client reads api/config from the media-web backend.
type Client struct {
	core.ServiceCore
	endpoint string
	health   string
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client for the backend at baseURL. A relative
// baseURL is not accepted because the server has no document location to
// resolve it against.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	endpoint, err := ResolveEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	health, err := resolve(baseURL, HealthPath)
	if err != nil {
		return nil, err
	}

	c := &Client{endpoint: endpoint, health: health}
	c.Type = "config"
	c.DisplayName = "media-web config"
	c.BaseURL = baseURL
	c.Timeout = timeout
	return c, nil
}

// ResolveEndpoint joins EndpointPath onto baseURL the way a browser resolves
// a relative link: "http://h/app/" gives "http://h/app/api/config" and
// "http://h/app" gives "http://h/api/config".
func ResolveEndpoint(baseURL string) (string, error) {
	return resolve(baseURL, EndpointPath)
}

func resolve(baseURL, ref string) (string, error) {
	if baseURL == "" {
		return "", core.ErrServiceNotConfigured
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid backend url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return "", fmt.Errorf("backend url must be absolute: %q", baseURL)
	}
	return base.ResolveReference(&url.URL{Path: ref}).String(), nil
}

// Endpoint returns the resolved api/config URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HealthEndpoint returns the resolved health URL.
func (c *Client) HealthEndpoint() string {
	return c.health
}

// CheckHealth GETs the backend health endpoint and returns its status code.
// A non-2xx status is returned as an ErrConfigFetch with Op "health".
func (c *Client) CheckHealth(ctx context.Context) (int, error) {
	resp, err := c.MakeRequestWithContext(ctx, c.health, nil)
	if err != nil {
		return 0, &ErrConfigFetch{Op: "health", Err: fmt.Errorf("failed to make request: %w", err)}
	}
	if _, err := c.ReadBody(resp); err != nil {
		return resp.StatusCode, &ErrConfigFetch{Op: "health", Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if !core.IsSuccess(resp.StatusCode) {
		return resp.StatusCode, &ErrConfigFetch{Op: "health", HttpCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

// FetchConfig issues one GET of api/config. There is no retry.
func (c *Client) FetchConfig(ctx context.Context) (types.ConfigResource, error) {
	start := time.Now()

	config, err := c.fetch(ctx)

	fetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		fetchTotal.WithLabelValues(resultFailure).Inc()
		return nil, err
	}
	fetchTotal.WithLabelValues(resultSuccess).Inc()
	return config, nil
}

func (c *Client) fetch(ctx context.Context) (types.ConfigResource, error) {
	resp, err := c.MakeRequestWithContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, &ErrConfigFetch{Op: "get", Err: fmt.Errorf("failed to make request: %w", err)}
	}

	body, err := c.ReadBody(resp)
	if err != nil {
		return nil, &ErrConfigFetch{Op: "get", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if !core.IsSuccess(resp.StatusCode) {
		return nil, &ErrConfigFetch{Op: "get", HttpCode: resp.StatusCode}
	}

	var config types.ConfigResource
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, &ErrConfigFetch{Op: "decode", Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if config == nil {
		return nil, &ErrConfigFetch{Op: "decode", Err: fmt.Errorf("response is not a JSON object")}
	}

	return config, nil
}
