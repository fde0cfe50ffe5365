package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/abmah/green-jordan-backend/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "green-jordan-backend",
	}

	if db := h.container.GetDB(); db != nil {
		if err := db.Health(r.Context()); err != nil {
			logger.WithError(err).Error("Database health check failed")
			response.Status = "degraded"
		}
	}
	if redisClient := h.container.GetRedisClient(); redisClient != nil {
		if err := redisClient.Health(r.Context()); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Status = "degraded"
		}
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode health check response")
	}
}
