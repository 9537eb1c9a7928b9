// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package app is the composition root: it builds the router, the config
// client, the view factory and the HTTP engine from one Config.
package app

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/mediaweb/internal/api/handlers"
	"github.com/autobrr/mediaweb/internal/api/middleware"
	"github.com/autobrr/mediaweb/internal/api/routes"
	"github.com/autobrr/mediaweb/internal/config"
	"github.com/autobrr/mediaweb/internal/logger"
	"github.com/autobrr/mediaweb/internal/router"
	"github.com/autobrr/mediaweb/internal/services/cache"
	"github.com/autobrr/mediaweb/internal/services/configapi"
	"github.com/autobrr/mediaweb/internal/view"
	"github.com/autobrr/mediaweb/web"
)

type App struct {
	Config  *config.Config
	Router  *router.Router
	Client  *configapi.Client
	Engine  *gin.Engine
	Store   cache.Store
	Version string
}

// New wires the application. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	client, err := configapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout.Duration)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config client")
	}

	templates, err := web.LoadTemplates(web.TemplateFS(cfg.Web.TemplatesDir))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load templates")
	}

	gin.SetMode(ginMode(cfg.Server.Mode))
	isDev := gin.Mode() != gin.ReleaseMode

	store, err := cache.InitCache(ctx, cfg.Cache, isDev)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize cache")
	}

	a := &App{
		Config:  cfg,
		Router:  router.Default(),
		Client:  client,
		Store:   store,
		Version: version,
	}

	r := gin.New()
	r.Use(middleware.Logger(logger.Component("http")))
	r.Use(gin.Recovery())

	if isDev {
		err = r.SetTrustedProxies(nil)
	} else {
		err = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to set trusted proxies")
	}

	r.SetHTMLTemplate(templates)

	routes.SetupRoutes(r, routes.Options{
		Pages:      handlers.NewPageHandler(a.Router, templates, a.NewConfigView, cfg.Web.Title, version),
		Health:     handlers.NewHealthHandler(version),
		Store:      store,
		RateWindow: cfg.RateLimit.Window.Duration,
		RateLimit:  cfg.RateLimit.Limit,
	})
	a.Engine = r

	log.Debug().
		Str("backend", client.Endpoint()).
		Int("routes", len(a.Router.Routes())).
		Msg("Application wired")

	return a, nil
}

// NewConfigView returns a fresh view bound to the backend client.
func (a *App) NewConfigView() *view.ConfigView {
	return view.NewConfigView(a.Client, logger.Component("config-view"))
}

// Close releases the cache store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func ginMode(mode string) string {
	switch strings.ToLower(mode) {
	case gin.DebugMode:
		return gin.DebugMode
	case gin.TestMode:
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
