package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/app"
)

// StorageHandler handles cache usage and cleanup HTTP requests
type StorageHandler struct {
	library *app.Library
	logger  *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(library *app.Library, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{
		library: library,
		logger:  logger,
	}
}

// CleanupRequest represents a request to shrink the cache
type CleanupRequest struct {
	MaxSizeMB uint64 `json:"max_size_mb"`
}

// Usage handles GET /api/v1/storage/usage
func (h *StorageHandler) Usage(c *gin.Context) {
	usage, err := h.library.Usage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, usage)
}

// Cleanup handles POST /api/v1/storage/cleanup
func (h *StorageHandler) Cleanup(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.library.Cleanup(req.MaxSizeMB)
	if err != nil {
		h.logger.Error("Cleanup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
