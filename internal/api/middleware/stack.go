// SPDX-License-Identifier: MIT

package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/metrics"
)

// StackConfig configures the HTTP ingress middleware stack.
type StackConfig struct {
	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	// RateLimitRequests per RateLimitWindow per client IP; 0 disables.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter constructs a chi router with the middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. Metrics
	if cfg.EnableMetrics {
		r.Use(metrics.Middleware())
	}
	// 4. Tracing
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
	// 5. Logging (captures full latency)
	if cfg.EnableLogging {
		r.Use(log.Middleware())
	}
	// 6. Rate limit
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
		r.Use(RateLimit(RateLimitConfig{
			RequestLimit: cfg.RateLimitRequests,
			WindowSize:   cfg.RateLimitWindow,
		}))
	}
}
