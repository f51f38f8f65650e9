// SPDX-License-Identifier: MIT

// Package health provides liveness and readiness checks. The service is
// ready once at least one playlist catalog has been loaded.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ManuGH/m3ucat/internal/log"
)

// Status is the outcome of a check or of a whole probe.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) severity() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

// CheckResult is what a single Checker reports.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the body returned by both probes.
type Report struct {
	Status    Status                 `json:"status"`
	Ready     bool                   `json:"ready"`
	Version   string                 `json:"version,omitempty"`
	CheckedAt time.Time              `json:"checkedAt"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker is a named component check.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs the registered checkers for the liveness and readiness probes.
type Manager struct {
	version  string
	checkers []Checker
}

func NewManager(version string) *Manager {
	return &Manager{version: version}
}

// RegisterChecker must be called before the manager starts serving.
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// evaluate runs every checker and folds the results into the worst status.
func (m *Manager) evaluate(ctx context.Context) (Status, map[string]CheckResult) {
	worst := StatusHealthy
	results := make(map[string]CheckResult, len(m.checkers))
	for _, c := range m.checkers {
		res := c.Check(ctx)
		results[c.Name()] = res
		if res.Status.severity() > worst.severity() {
			worst = res.Status
		}
	}
	return worst, results
}

// Health is the liveness probe. Checkers only run when verbose is set, and
// the process counts as alive either way.
func (m *Manager) Health(ctx context.Context, verbose bool) Report {
	rep := Report{
		Status:    StatusHealthy,
		Ready:     true,
		Version:   m.version,
		CheckedAt: time.Now(),
	}
	if verbose && len(m.checkers) > 0 {
		rep.Status, rep.Checks = m.evaluate(ctx)
		rep.Ready = rep.Status != StatusUnhealthy
	}
	return rep
}

// Ready is the readiness probe. Any unhealthy checker makes it not ready;
// degraded checkers are reported but still ready.
func (m *Manager) Ready(ctx context.Context, verbose bool) Report {
	status, checks := m.evaluate(ctx)
	rep := Report{
		Status:    status,
		Ready:     status != StatusUnhealthy,
		Version:   m.version,
		CheckedAt: time.Now(),
	}
	if verbose {
		rep.Checks = checks
	}
	return rep
}

// ServeHealth always answers 200 while the process can respond.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"
	m.write(w, r, "health", m.Health(r.Context(), verbose), http.StatusOK)
}

// ServeReady answers 503 until the service is ready.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"
	rep := m.Ready(r.Context(), verbose)
	code := http.StatusOK
	if !rep.Ready {
		code = http.StatusServiceUnavailable
	}
	m.write(w, r, "readiness", rep, code)
}

func (m *Manager) write(w http.ResponseWriter, r *http.Request, probe string, rep Report, code int) {
	logger := log.WithComponentFromContext(r.Context(), probe)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		logger.Error().Err(err).Str("event", probe+".encode_error").Msg("failed to encode probe response")
		return
	}

	logger.Debug().
		Str("event", probe+".checked").
		Str("status", string(rep.Status)).
		Bool("ready", rep.Ready).
		Int("code", code).
		Msg("probe served")
}
