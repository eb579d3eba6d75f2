package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by the postgres and redis handles.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db    HealthChecker
	redis HealthChecker
}

func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports unavailable when postgres is down. Redis only backs the rate
// limiter and the aggregate cache, both of which degrade, so it is reported
// without failing readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Services: map[string]string{}}
	status := http.StatusOK

	if h.db == nil || h.db.Health(ctx) != nil {
		resp.Services["postgres"] = "unavailable"
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		resp.Services["postgres"] = "ok"
	}

	switch {
	case h.redis == nil:
		resp.Services["redis"] = "disabled"
	case h.redis.Health(ctx) != nil:
		resp.Services["redis"] = "degraded"
	default:
		resp.Services["redis"] = "ok"
	}

	writeJSON(w, status, resp)
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "alive"})
}
