// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/mediaweb/internal/config"
)

func newTestApp(t *testing.T, backendURL string) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Backend.BaseURL = backendURL
	cfg.Backend.Timeout = config.Duration{Duration: 2 * time.Second}

	a, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func get(a *App, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.10:5000"
	a.Engine.ServeHTTP(w, req)
	return w
}

func TestApp_ConfigPage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"RadarrApiKey":"abc123","WorkerEnabled":true}`))
	}))
	defer backend.Close()

	a := newTestApp(t, backend.URL)

	w := get(a, "/config")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="abc123"`)
	assert.Contains(t, w.Body.String(), "WorkerEnabled")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestApp_ConfigPage_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	a := newTestApp(t, backend.URL)

	w := get(a, "/config")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value=""`)
}

func TestApp_ConfigPage_RejectsWrites(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	a := newTestApp(t, backend.URL)

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/config", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		a.Engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
	assert.Zero(t, hits.Load())
}

func TestApp_MainPage(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1/")

	for _, target := range []string{"/", "/anything", "/config/"} {
		w := get(a, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Contains(t, w.Body.String(), "<h1>media-web</h1>", target)
	}
}

func TestApp_HealthAndStatic(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1/")

	assert.Equal(t, http.StatusOK, get(a, "/health").Code)
	assert.Equal(t, http.StatusOK, get(a, "/static/app.css").Code)
	assert.Equal(t, http.StatusOK, get(a, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/api/unknown").Code)
}

func TestNew_InvalidBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.BaseURL = "not a url"

	_, err := New(context.Background(), cfg, "test")
	assert.Error(t, err)
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "debug", ginMode("DEBUG"))
	assert.Equal(t, "test", ginMode("test"))
	assert.Equal(t, "release", ginMode(""))
	assert.Equal(t, "release", ginMode("whatever"))
}
