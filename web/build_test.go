// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	tmpl, err := LoadTemplates(TemplateFS(""))
	require.NoError(t, err)

	assert.NotNil(t, tmpl.Lookup("templates/main.html"))
	assert.NotNil(t, tmpl.Lookup("templates/config.html"))
}

func TestLoadTemplates_Empty(t *testing.T) {
	_, err := LoadTemplates(fstest.MapFS{})
	assert.Error(t, err)
}

func TestLoadTemplates_ParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/main.html": {Data: []byte("{{.Title")},
	}

	_, err := LoadTemplates(fsys)
	assert.ErrorContains(t, err, "templates/main.html")
}

func TestTemplateFS_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "main.html"), []byte("main {{.Title}}"), 0644))

	tmpl, err := LoadTemplates(TemplateFS(dir))
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("templates/main.html"))
	assert.Nil(t, tmpl.Lookup("templates/config.html"))
}

func TestServeStatic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ServeStatic(r)

	tests := []struct {
		name        string
		path        string
		wantCode    int
		contentType string
	}{
		{name: "stylesheet", path: "/static/app.css", wantCode: http.StatusOK, contentType: "text/css; charset=utf-8"},
		{name: "missing", path: "/static/missing.js", wantCode: http.StatusNotFound},
		{name: "favicon", path: "/favicon.ico", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			}
		})
	}
}
