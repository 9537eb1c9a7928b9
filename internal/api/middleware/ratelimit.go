// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/mediaweb/internal/services/cache"
)

type RateLimiter struct {
	store     cache.Store
	window    time.Duration
	limit     int
	keyPrefix string
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter with the specified configuration.
// A zero limit disables limiting.
func NewRateLimiter(store cache.Store, window time.Duration, limit int, keyPrefix string) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		store:     store,
		window:    window,
		limit:     limit,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// RateLimit returns a Gin middleware function that implements per-IP
// sliding-window rate limiting. Store errors let the request through.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not determine client IP"})
			return
		}

		key := cache.PrefixRate + rl.keyPrefix + clientIP
		now := rl.now()
		windowStart := now.Add(-rl.window)
		reset := strconv.FormatInt(now.Add(rl.window).Unix(), 10)

		ctx := c.Request.Context()
		count, err := rl.store.CleanAndCount(ctx, key, windowStart.UnixMicro())
		if err != nil {
			log.Error().Err(err).Msg("Failed to clean rate limit data")
			c.Next()
			return
		}

		if count >= int64(rl.limit) {
			retryAfter := int(rl.window.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", reset)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"limit":       rl.limit,
				"window":      rl.window.String(),
				"retry_after": retryAfter,
			})
			return
		}

		if err := rl.store.Increment(ctx, key, now.UnixMicro()); err != nil {
			log.Error().Err(err).Msg("Failed to record request")
			c.Next()
			return
		}

		if err := rl.store.Expire(ctx, key, rl.window); err != nil {
			log.Error().Err(err).Msg("Failed to set expiration")
		}

		remaining := rl.limit - int(count) - 1
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", reset)

		c.Next()
	}
}
