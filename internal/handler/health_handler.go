package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/faultline/faultline/internal/database"
	"github.com/faultline/faultline/internal/store"
)

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	redis     *store.Redis
	db        *database.MongoDB
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redis *store.Redis, db *database.MongoDB, version string) *HealthHandler {
	return &HealthHandler{
		redis:     redis,
		db:        db,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the liveness response
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	Redis   string `json:"redis"`
	MongoDB string `json:"mongodb"`
}

// Health returns liveness. No dependency checks: a wedged store must
// not make the orchestrator restart the process.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// Ready returns readiness, verifying both stores answer
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Ready: true, Redis: "connected", MongoDB: "connected"}

	if err := h.redis.Ping(ctx); err != nil {
		resp.Ready = false
		resp.Redis = "disconnected"
	}
	if err := h.db.Client.Ping(ctx, nil); err != nil {
		resp.Ready = false
		resp.MongoDB = "disconnected"
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
