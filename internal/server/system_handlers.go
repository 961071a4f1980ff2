package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/portsure/platform/internal/database"
)

// SystemHandlers serves health and status endpoints
type SystemHandlers struct {
	databases []*database.DB
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates system handlers over the platform databases
func NewSystemHandlers(databases []*database.DB, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		databases: databases,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// HandleHealth reports overall liveness, checking every database
// GET /health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.databases))

	for _, db := range h.databases {
		if err := db.HealthCheck(ctx); err != nil {
			h.log.Error().Err(err).Str("database", db.Name()).Msg("Health check failed")
			checks[db.Name()] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[db.Name()] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	h.writeJSON(w, status, map[string]interface{}{
		"status":    state,
		"databases": checks,
	})
}

// HandleSystemStatus reports process and host statistics
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"cpuPercent":    cpuPercent,
		"memoryPercent": memPercent,
		"goroutines":    runtime.NumGoroutine(),
		"goVersion":     runtime.Version(),
	})
}

// systemStats samples CPU and memory usage. The short CPU interval keeps the
// endpoint responsive for polling dashboards.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
