// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecureConfig holds configuration for secure headers
type SecureConfig struct {
	CSPEnabled         bool
	CSPDirectives      [][2]string // directive name, sources
	HSTSEnabled        bool
	HSTSMaxAge         int
	FrameGuardAction   string // DENY, SAMEORIGIN; empty disables
	ContentTypeNosniff bool
	ReferrerPolicy     string
}

// DefaultSecureConfig returns the default secure configuration
func DefaultSecureConfig() *SecureConfig {
	return &SecureConfig{
		CSPEnabled: true,
		CSPDirectives: [][2]string{
			{"default-src", "'self'"},
			{"style-src", "'self' 'unsafe-inline'"},
			{"img-src", "'self' data:"},
			{"object-src", "'none'"},
			{"frame-ancestors", "'none'"},
		},
		HSTSEnabled:        true,
		HSTSMaxAge:         31536000, // 1 year
		FrameGuardAction:   "DENY",
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
}

// buildCSPHeader builds the Content-Security-Policy header value
func (c *SecureConfig) buildCSPHeader() string {
	parts := make([]string, 0, len(c.CSPDirectives))
	for _, d := range c.CSPDirectives {
		parts = append(parts, d[0]+" "+d[1])
	}
	return strings.Join(parts, "; ")
}

// Secure returns a middleware that adds security headers
func Secure(config *SecureConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultSecureConfig()
	}
	csp := config.buildCSPHeader()

	return func(c *gin.Context) {
		if config.CSPEnabled && csp != "" {
			c.Header("Content-Security-Policy", csp)
		}
		if config.HSTSEnabled {
			c.Header("Strict-Transport-Security", "max-age="+strconv.Itoa(config.HSTSMaxAge)+"; includeSubDomains")
		}
		if config.FrameGuardAction != "" {
			c.Header("X-Frame-Options", config.FrameGuardAction)
		}
		if config.ContentTypeNosniff {
			c.Header("X-Content-Type-Options", "nosniff")
		}
		if config.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", config.ReferrerPolicy)
		}

		c.Next()
	}
}
