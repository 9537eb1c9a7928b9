// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/mediaweb/internal/router"
	"github.com/autobrr/mediaweb/internal/view"
)

// ConfigViewFactory builds a fresh ConfigView for one page activation.
type ConfigViewFactory func() *view.ConfigView

type PageHandler struct {
	router    *router.Router
	templates *template.Template
	newConfig ConfigViewFactory
	title     string
	version   string
}

func NewPageHandler(r *router.Router, templates *template.Template, newConfig ConfigViewFactory, title, version string) *PageHandler {
	return &PageHandler{
		router:    r,
		templates: templates,
		newConfig: newConfig,
		title:     title,
		version:   version,
	}
}

// ServePage renders the template the current path resolves to. Only GET and
// HEAD are served; other methods get 405 without touching the backend.
// Routes bound to ConfigView activate a new view and render once its fetch
// has finished, whatever the outcome.
func (h *PageHandler) ServePage(c *gin.Context) {
	// Don't render pages for API routes
	if p := c.Request.URL.Path; p == "/api" || strings.HasPrefix(p, "/api/") {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	// Pages are read-only
	if m := c.Request.Method; m != http.MethodGet && m != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	route := h.router.Resolve(c.Request.URL.Path)

	if h.templates == nil || h.templates.Lookup(route.Template) == nil {
		log.Error().Str("template", route.Template).Msg("Template not found")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	page := view.NewPage(route, c.Request.URL)
	page.Title = h.title
	page.Version = h.version

	switch route.Controller {
	case router.ControllerConfig:
		v := h.newConfig()
		select {
		case <-v.Activate(c.Request.Context()):
		case <-c.Request.Context().Done():
			return
		}
		state := v.Snapshot()
		page.Config = &state
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.HTML(http.StatusOK, route.Template, page)
}

// ResolveRoute returns the route for the "path" query parameter as JSON.
func (h *PageHandler) ResolveRoute(c *gin.Context) {
	c.JSON(http.StatusOK, h.router.Resolve(c.Query("path")))
}
