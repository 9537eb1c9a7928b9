// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autobrr/mediaweb/internal/api/handlers"
	"github.com/autobrr/mediaweb/internal/api/middleware"
	"github.com/autobrr/mediaweb/internal/services/cache"
	"github.com/autobrr/mediaweb/web"
)

// Options carries what SetupRoutes wires onto the engine.
type Options struct {
	Pages      *handlers.PageHandler
	Health     *handlers.HealthHandler
	Store      cache.Store
	RateWindow time.Duration
	RateLimit  int
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, opts Options) {
	r.Use(middleware.SetupCORS())
	r.Use(middleware.Secure(nil))

	pageRateLimiter := middleware.NewRateLimiter(opts.Store, opts.RateWindow, opts.RateLimit, "pages:")
	apiRateLimiter := middleware.NewRateLimiter(opts.Store, opts.RateWindow, opts.RateLimit, "api:")

	// Public routes
	r.GET("/health", opts.Health.CheckHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(apiRateLimiter.RateLimit())
	{
		api.GET("/routes/resolve", opts.Pages.ResolveRoute)
	}

	web.ServeStatic(r)

	// Every other path is a page
	r.NoRoute(pageRateLimiter.RateLimit(), opts.Pages.ServePage)
}
