package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
)

// SettingsHandler exposes the settings persisted inside the catalog
type SettingsHandler struct {
	library *app.Library
	logger  *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(library *app.Library, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		library: library,
		logger:  logger,
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.library.Settings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/v1/settings. The whole settings object is
// replaced, matching the wholesale catalog persistence model.
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.library.UpdateSettings(settings); err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
