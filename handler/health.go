package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthHandler reports process and Redis health
type HealthHandler struct {
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{redis: rdb}
}

// Check handles GET /health
// @Summary Health check
// @Description Reports service health including the Redis connection
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Service healthy"
// @Failure 503 {object} ErrorResponse "Redis unreachable"
// @Router /health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		SendJSONError(w, http.StatusServiceUnavailable, err, "Redis unreachable")
		return
	}

	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
