// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package view

import (
	"net/url"

	"github.com/autobrr/mediaweb/internal/router"
)

// Location is the request location as seen by the page.
type Location struct {
	Path     string
	RawQuery string
}

// String returns the path with its query, if any.
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// Page holds every binding a template can read. Route, Location and Params
// are passed through; Config is set only for routes bound to ConfigView.
type Page struct {
	Title    string
	Version  string
	Route    router.Route
	Location Location
	Params   map[string]string
	Config   *State
}

// NewPage builds the bindings for route at u. Params keeps the first value
// of each query parameter.
func NewPage(route router.Route, u *url.URL) Page {
	page := Page{
		Route:  route,
		Params: map[string]string{},
	}
	if u == nil {
		return page
	}

	page.Location = Location{Path: u.Path, RawQuery: u.RawQuery}
	for key, values := range u.Query() {
		if len(values) > 0 {
			page.Params[key] = values[0]
		}
	}
	return page
}
