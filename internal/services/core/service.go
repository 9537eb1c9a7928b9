// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/autobrr/mediaweb/internal/buildinfo"
)

var (
	// Global HTTP client pool
	httpClients sync.Map

	// Common errors
	ErrServiceNotConfigured = errors.New("service is not configured")
	ErrNilResponse          = errors.New("received nil response from server")
)

const (
	DefaultTimeout = 15 * time.Second

	// maxBodySize bounds how much of a backend response is read.
	maxBodySize = 10 << 20
)

// ServiceCore holds what every backend client needs to issue requests.
type ServiceCore struct {
	Type        string
	DisplayName string
	BaseURL     string
	Timeout     time.Duration
}

// getHTTPClient returns a client with the specified timeout
func getHTTPClient(timeout time.Duration) *http.Client {
	// Use the timeout as the key
	if client, ok := httpClients.Load(timeout); ok {
		return client.(*http.Client)
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}

	actual, _ := httpClients.LoadOrStore(timeout, client)
	return actual.(*http.Client)
}

// MakeRequestWithContext issues a GET against url. Keys of headers are set
// verbatim on the request; the "auth_header"/"auth_value" pair sets a single
// credential header when the value is non-empty.
func (s *ServiceCore) MakeRequestWithContext(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	if url == "" {
		return nil, ErrServiceNotConfigured
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	buildinfo.AttachUserAgentHeader(req)
	req.Header.Set("Accept", "application/json")

	if authHeader, ok := headers["auth_header"]; ok {
		if authValue := headers["auth_value"]; authValue != "" {
			req.Header.Set(authHeader, authValue)
		}
	}
	for headerKey, headerValue := range headers {
		if headerKey != "auth_header" && headerKey != "auth_value" {
			req.Header.Set(headerKey, headerValue)
		}
	}

	start := time.Now()

	resp, err := getHTTPClient(timeout).Do(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNilResponse
	}

	// Store the response time in the response header
	resp.Header.Set("X-Response-Time", time.Since(start).String())

	return resp, nil
}

// ReadBody reads and closes the response body.
func (s *ServiceCore) ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
