// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package web

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const TemplatesDir = "templates"

var (
	//go:embed templates
	Templates embed.FS

	//go:embed all:static
	Static embed.FS

	StaticFS = MustSubFS(Static, "static")
)

// MustSubFS creates sub FS from current filesystem or panic on failure.
func MustSubFS(currentFs fs.FS, fsRoot string) fs.FS {
	subFs, err := fs.Sub(currentFs, fsRoot)
	if err != nil {
		panic(fmt.Errorf("can not create sub FS, invalid root given, err: %w", err))
	}
	return subFs
}

// TemplateFS returns the embedded templates, or dir when it is set. dir must
// contain a templates/ directory so names match the route table.
func TemplateFS(dir string) fs.FS {
	if dir == "" {
		return Templates
	}
	return os.DirFS(dir)
}

// LoadTemplates parses every templates/*.html file of fsys. Each template is
// named by its path, e.g. "templates/config.html".
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	names, err := fs.Glob(fsys, path.Join(TemplatesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no templates found in %s", TemplatesDir)
	}

	root := template.New("")
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return root, nil
}

// ServeStatic registers the static asset handler with Gin
func ServeStatic(r *gin.Engine) {
	r.GET("/static/*filepath", func(c *gin.Context) {
		filepath := strings.TrimPrefix(c.Param("filepath"), "/")
		serveStaticFile(c, filepath, contentType(filepath))
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func serveStaticFile(c *gin.Context, filepath string, contentType string) {
	file, err := StaticFS.Open(filepath)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")

	http.ServeContent(c.Writer, c.Request, filepath, stat.ModTime(), bytes.NewReader(data))
}

func contentType(filepath string) string {
	switch strings.ToLower(path.Ext(filepath)) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".json":
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
