package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"

	defaultCheckTimeout = 2 * time.Second
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// Check probes one backing dependency.
type Check struct {
	Name    string
	Timeout time.Duration
	Probe   func(ctx context.Context) error
}

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func PingCheck(name string, db Pinger) Check {
	return Check{Name: name, Probe: db.PingContext}
}

type HealthHandler struct {
	checks []Check
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler runs every check in parallel; one failure marks the
// whole service unhealthy.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.checks)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range h.checks {
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()
			entry := runCheck(r.Context(), c)
			mu.Lock()
			resp.Components[c.Name] = entry
			if entry.Status == HealthUnhealthy {
				resp.Status = HealthUnhealthy
			}
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	resp.CheckedAt = time.Now().UTC()

	status := http.StatusOK
	if resp.Status == HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeHealth(w, status, resp)
}

func runCheck(parent context.Context, c Check) CheckEntry {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	err := c.Probe(ctx)
	entry := CheckEntry{Status: HealthHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

func writeHealth(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
