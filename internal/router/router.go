// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package router

import "strings"

// Controller names the view-model bound to a route.
type Controller string

const (
	ControllerNone   Controller = ""
	ControllerConfig Controller = "ConfigView"
)

const (
	PathConfig     = "/config"
	TemplateConfig = "templates/config.html"
	TemplateMain   = "templates/main.html"
)

// Route maps a location path to a template and an optional controller.
type Route struct {
	Path       string     `json:"path,omitempty"`
	Template   string     `json:"template"`
	Controller Controller `json:"controller,omitempty"`
}

// HasController reports whether the route is bound to a view-model.
func (r Route) HasController() bool {
	return r.Controller != ControllerNone
}

// Router resolves location paths against a fixed route table.
// It holds no mutable state and is safe for concurrent use.
type Router struct {
	routes    []Route
	otherwise Route
}

// New creates a router. otherwise is returned for every path that matches
// none of routes; its Path is ignored.
func New(otherwise Route, routes ...Route) *Router {
	table := make([]Route, len(routes))
	copy(table, routes)
	otherwise.Path = ""
	return &Router{
		routes:    table,
		otherwise: otherwise,
	}
}

// Default returns the application route table.
func Default() *Router {
	return New(
		Route{Template: TemplateMain},
		Route{Path: PathConfig, Template: TemplateConfig, Controller: ControllerConfig},
	)
}

// Resolve returns the route for path. It never fails: unmatched paths
// resolve to the fallback route.
func (r *Router) Resolve(path string) Route {
	for _, route := range r.routes {
		if matches(route.Path, path) {
			return route
		}
	}
	return r.otherwise
}

// Routes returns a copy of the route table, fallback excluded.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Otherwise returns the fallback route.
func (r *Router) Otherwise() Route {
	return r.otherwise
}

// matches compares exactly, ignoring a trailing ?query or #fragment.
func matches(routePath, path string) bool {
	if !strings.HasPrefix(path, routePath) {
		return false
	}
	rest := path[len(routePath):]
	return rest == "" || rest[0] == '?' || rest[0] == '#'
}
