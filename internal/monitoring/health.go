package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Health check status constants.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// HealthCheckFunc probes one component.
type HealthCheckFunc func(context.Context) *CheckResult

// CheckResult is the outcome of a single component probe.
type CheckResult struct {
	Status      string                 `json:"status"`
	Component   string                 `json:"component"`
	Details     map[string]interface{} `json:"details,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Error       string                 `json:"error,omitempty"`
}

// SystemHealth aggregates all component results.
type SystemHealth struct {
	Status     string                  `json:"status"`
	Components map[string]*CheckResult `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}

// HealthChecker runs registered component probes on demand.
type HealthChecker struct {
	checks map[string]HealthCheckFunc
	mu     sync.RWMutex
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]HealthCheckFunc)}
}

// RegisterCheck adds a component probe under a name.
func (h *HealthChecker) RegisterCheck(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Check probes every component. Overall status is DOWN when any component is.
func (h *HealthChecker) Check(ctx context.Context) *SystemHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health := &SystemHealth{
		Status:     StatusUp,
		Components: make(map[string]*CheckResult, len(h.checks)),
		Timestamp:  time.Now(),
	}

	for name, check := range h.checks {
		result := check(ctx)
		result.Component = name
		result.LastChecked = time.Now()
		health.Components[name] = result
		if result.Status != StatusUp {
			health.Status = StatusDown
		}
	}
	return health
}

// Handler serves the health report; 503 when any component is down.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status != StatusUp {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})
}

// Up is a convenience for healthy results.
func Up(details map[string]interface{}) *CheckResult {
	return &CheckResult{Status: StatusUp, Details: details}
}

// Down is a convenience for failed results.
func Down(err error) *CheckResult {
	return &CheckResult{Status: StatusDown, Error: err.Error()}
}
