package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/service"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	model service.Model
}

// NewHealthHandler creates a new health handler. A nil model reports not ready.
func NewHealthHandler(model service.Model) *HealthHandler {
	return &HealthHandler{model: model}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)

	status := "healthy"
	httpStatus := http.StatusOK
	if h.model != nil {
		components["model"] = h.model.Name()
	} else {
		components["model"] = "not loaded"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.model == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "model not loaded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
