// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Query parameter names containing any of these are redacted in logs.
var sensitiveParams = []string{
	"apikey",
	"api_key",
	"key",
	"token",
	"password",
	"secret",
}

// Logger returns a gin middleware for logging HTTP requests with zerolog
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if query := redactQuery(c.Request.URL.RawQuery); query != "" {
			path = path + "?" + query
		}

		event := logger.Debug()
		if len(c.Errors) > 0 {
			event = logger.Error().Err(c.Errors.Last())
		} else if c.Writer.Status() >= 500 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg("HTTP Request")
	}
}

// redactQuery replaces the values of sensitive query parameters.
func redactQuery(query string) string {
	if query == "" {
		return ""
	}
	parsed, err := url.ParseQuery(query)
	if err != nil {
		return "[UNPARSEABLE]"
	}
	for param := range parsed {
		lower := strings.ToLower(param)
		for _, sensitive := range sensitiveParams {
			if strings.Contains(lower, sensitive) {
				parsed.Set(param, "[REDACTED]")
				break
			}
		}
	}
	return parsed.Encode()
}
