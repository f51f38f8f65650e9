// SPDX-License-Identifier: MIT

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ManuGH/m3ucat/internal/log"
)

// RateLimitConfig describes a sliding-window limit.
type RateLimitConfig struct {
	RequestLimit int
	WindowSize   time.Duration
	// KeyFuncs build the bucket key. Defaults to the client IP.
	KeyFuncs []httprate.KeyFunc
}

// RateLimit answers 429 with a JSON body and a Retry-After header once a
// client exceeds the configured limit.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	keys := cfg.KeyFuncs
	if len(keys) == 0 {
		keys = []httprate.KeyFunc{httprate.KeyByIP}
	}
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(cfg.WindowSize.Seconds()))))

	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(keys...),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger := log.WithComponentFromContext(r.Context(), "ratelimit")
			logger.Warn().
				Str(log.FieldEvent, "ratelimit.exceeded").
				Str(log.FieldMethod, r.Method).
				Str(log.FieldPath, r.URL.Path).
				Str(log.FieldRemoteAddr, r.RemoteAddr).
				Msg("request rate limited")

			w.Header().Set("Retry-After", retryAfter)
			writeError(w, r, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		}),
	)
}

// LoadRateLimit limits the endpoints that trigger a playlist load, which
// cost an outbound fetch or a parse of an upload. Buckets are per client
// and per endpoint.
func LoadRateLimit() func(http.Handler) http.Handler {
	return RateLimit(RateLimitConfig{
		RequestLimit: 10,
		WindowSize:   time.Minute,
		KeyFuncs:     []httprate.KeyFunc{httprate.KeyByIP, httprate.KeyByEndpoint},
	})
}
