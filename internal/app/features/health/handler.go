package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger checks that the active store is reachable.
type Pinger func(ctx context.Context) error

// Handler holds dependencies needed for health checks.
type Handler struct {
	Ping   Pinger
	Driver string
	Log    *zap.Logger
}

// NewHandler constructs a health Handler for the given store driver.
func NewHandler(ping Pinger, driver string, logger *zap.Logger) *Handler {
	return &Handler{
		Ping:   ping,
		Driver: driver,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Driver   string `json:"driver"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "driver":"mongo" }
//
// On store failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Driver:   h.Driver,
	}

	if err := h.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed",
			zap.String("driver", h.Driver), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
