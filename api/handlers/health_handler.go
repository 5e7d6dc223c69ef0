package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicvault-go/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	library *app.Library
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(library *app.Library) *HealthHandler {
	return &HealthHandler{library: library}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": "1.0.0",
	})
}

// Ready handles GET /ready. The service is ready once the catalog can
// be loaded from disk.
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, err := h.library.Catalog(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
