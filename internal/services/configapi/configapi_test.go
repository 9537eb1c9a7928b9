// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package configapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/mediaweb/internal/services/core"
	"github.com/autobrr/mediaweb/internal/types"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "host only", baseURL: "http://localhost:8080", want: "http://localhost:8080/api/config"},
		{name: "host with slash", baseURL: "http://localhost:8080/", want: "http://localhost:8080/api/config"},
		{name: "sub path directory", baseURL: "https://media.example/web/", want: "https://media.example/web/api/config"},
		{name: "sub path file", baseURL: "https://media.example/web", want: "https://media.example/api/config"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/web/", wantErr: true},
		{name: "invalid", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEndpoint(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEndpoint_Empty(t *testing.T) {
	_, err := ResolveEndpoint("")
	assert.ErrorIs(t, err, core.ErrServiceNotConfigured)
}

func TestClient_FetchConfig(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       types.ConfigResource
		wantCode   int
		wantFailed bool
	}{
		{
			name:   "object",
			status: http.StatusOK,
			body:   `{"RadarrApiKey":"abc123","other":1}`,
			want:   types.ConfigResource{"RadarrApiKey": "abc123", "other": float64(1)},
		},
		{
			name:   "empty object",
			status: http.StatusOK,
			body:   `{}`,
			want:   types.ConfigResource{},
		},
		{
			name:   "non-200 success code",
			status: http.StatusAccepted,
			body:   `{"WorkerEnabled":true}`,
			want:   types.ConfigResource{"WorkerEnabled": true},
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error":"boom"}`,
			wantCode:   http.StatusInternalServerError,
			wantFailed: true,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       ``,
			wantCode:   http.StatusUnauthorized,
			wantFailed: true,
		},
		{
			name:       "not json",
			status:     http.StatusOK,
			body:       `<html></html>`,
			wantFailed: true,
		},
		{
			name:       "json array",
			status:     http.StatusOK,
			body:       `[1,2]`,
			wantFailed: true,
		},
		{
			name:       "json null",
			status:     http.StatusOK,
			body:       `null`,
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAccept string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAccept = r.Header.Get("Accept")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, time.Second)
			require.NoError(t, err)

			got, err := client.FetchConfig(context.Background())

			assert.Equal(t, "/api/config", gotPath)
			assert.Equal(t, "application/json", gotAccept)

			if tt.wantFailed {
				var fetchErr *ErrConfigFetch
				require.True(t, errors.As(err, &fetchErr), "expected ErrConfigFetch, got %v", err)
				assert.Equal(t, tt.wantCode, fetchErr.HttpCode)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FetchConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClient_FetchConfig_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(baseURL, time.Second)
	require.NoError(t, err)

	got, err := client.FetchConfig(context.Background())

	var fetchErr *ErrConfigFetch
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "get", fetchErr.Op)
	assert.Zero(t, fetchErr.HttpCode)
	assert.NotNil(t, errors.Unwrap(fetchErr))
	assert.Nil(t, got)
}

func TestClient_FetchConfig_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	successBefore := testutil.ToFloat64(fetchTotal.WithLabelValues(resultSuccess))
	failureBefore := testutil.ToFloat64(fetchTotal.WithLabelValues(resultFailure))

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.FetchConfig(context.Background())
	require.NoError(t, err)

	client.endpoint += "?fail=1"
	_, err = client.FetchConfig(context.Background())
	require.Error(t, err)

	assert.Equal(t, successBefore+1, testutil.ToFloat64(fetchTotal.WithLabelValues(resultSuccess)))
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(fetchTotal.WithLabelValues(resultFailure)))
}

func TestErrConfigFetch_Error(t *testing.T) {
	assert.Equal(t, "config get: server returned Internal Server Error (500)",
		(&ErrConfigFetch{Op: "get", HttpCode: http.StatusInternalServerError}).Error())
	assert.Equal(t, "config decode: bad",
		(&ErrConfigFetch{Op: "decode", Err: errors.New("bad")}).Error())
	assert.Equal(t, "config get", (&ErrConfigFetch{Op: "get"}).Error())
}

func TestClient_CheckHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/app/health" {
			http.NotFound(w, r)
			return
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/app/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/app/health", client.HealthEndpoint())

	code, err := client.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	healthy.Store(false)
	code, err = client.CheckHealth(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, code)

	var fetchErr *ErrConfigFetch
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "health", fetchErr.Op)
}
