package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"hostpulse/internal/logger"
	"hostpulse/internal/worker"
)

// HealthReport is the /health response body
type HealthReport struct {
	Status    string    `json:"status"`
	State     string    `json:"state"`
	Host      string    `json:"host"`
	Timestamp time.Time `json:"timestamp"`
}

// Healthy reports whether the monitor loop is running
func (h HealthReport) Healthy() bool {
	return h.Status == "healthy"
}

// StatsReport is the /stats response body
type StatsReport struct {
	Tasks      map[string]worker.Stats `json:"tasks"`
	Cooldowns  map[string]time.Time    `json:"cooldowns"`
	Thresholds map[string]float64      `json:"thresholds"`
	Notifier   string                  `json:"notifier"`
}

// Reporter supplies the data served by the status endpoints
type Reporter interface {
	Health() HealthReport
	Stats() StatsReport
}

// HealthHandler serves /health. It answers 503 unless the loop is running.
type HealthHandler struct {
	reporter Reporter
}

// NewHealthHandler creates a health handler
func NewHealthHandler(r Reporter) *HealthHandler {
	return &HealthHandler{reporter: r}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.reporter.Health()
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// StatsHandler serves /stats
type StatsHandler struct {
	reporter Reporter
}

// NewStatsHandler creates a stats handler
func NewStatsHandler(r Reporter) *StatsHandler {
	return &StatsHandler{reporter: r}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.reporter.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logger.WithComponent("http")
		log.Error().Err(err).Msg("failed to encode response")
	}
}
