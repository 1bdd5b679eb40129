// Package health serves the storefront's liveness and readiness endpoints.
// Liveness only proves the process is up; readiness pings the registered
// dependencies (postgres, redis) and flips to 503 when any of them fails.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// readinessTimeout bounds the combined dependency checks so a hung pool
// cannot stall the probe.
const readinessTimeout = 5 * time.Second

// Checker pings one dependency.
type Checker func(ctx context.Context) error

// Status is the reported state of the service or one dependency.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Report is the JSON body of both endpoints.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency's outcome.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler holds the named dependency checkers.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHandler creates a Handler with no checkers registered.
func NewHandler() *Handler {
	return &Handler{checkers: make(map[string]Checker)}
}

// Register adds a named dependency check. Registering the same name again
// replaces the previous checker.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// LivenessHandler always reports up while the process can serve requests.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeReport(w, http.StatusOK, Report{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs every registered checker and reports 200 when all
// pass, 503 with per-check detail otherwise.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		h.mu.RLock()
		checkers := make(map[string]Checker, len(h.checkers))
		for name, c := range h.checkers {
			checkers[name] = c
		}
		h.mu.RUnlock()

		report := Report{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]CheckResult, len(checkers)),
		}
		for name, check := range checkers {
			if err := check(ctx); err != nil {
				report.Status = StatusDown
				report.Checks[name] = CheckResult{Status: StatusDown, Error: err.Error()}
				continue
			}
			report.Checks[name] = CheckResult{Status: StatusUp}
		}

		status := http.StatusOK
		if report.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeReport(w, status, report)
	}
}

func writeReport(w http.ResponseWriter, status int, report Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
