package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
)

// AudioHandler handles audio download and catalog HTTP requests
type AudioHandler struct {
	library *app.Library
	logger  *zap.Logger
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(library *app.Library, logger *zap.Logger) *AudioHandler {
	return &AudioHandler{
		library: library,
		logger:  logger,
	}
}

// DownloadRequest represents a request to cache one audio
type DownloadRequest struct {
	Audio domain.Audio `json:"audio" binding:"required"`
}

// BatchDownloadRequest represents a request to cache several audios
type BatchDownloadRequest struct {
	Audios []domain.Audio `json:"audios" binding:"required"`
}

// Download handles POST /api/v1/audios
func (h *AudioHandler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidatePlatform(req.Audio.Platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform"})
		return
	}

	local, err := h.library.DownloadAudio(c.Request.Context(), req.Audio)
	if err != nil {
		if app.IsUnsupportedPlatform(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to download audio",
			zap.String("audio_id", req.Audio.ID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, local)
}

// DownloadBatch handles POST /api/v1/audios/batch
func (h *AudioHandler) DownloadBatch(c *gin.Context) {
	var req BatchDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.library.DownloadBatch(c.Request.Context(), req.Audios, nil)
	if err != nil {
		h.logger.Error("Batch download failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// List handles GET /api/v1/audios
func (h *AudioHandler) List(c *gin.Context) {
	catalog, err := h.library.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audios": catalog.Audios,
		"count":  len(catalog.Audios),
	})
}

// Delete handles DELETE /api/v1/audios/:id
func (h *AudioHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.library.DeleteAudio(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// MarkPlayed handles POST /api/v1/audios/:id/played
func (h *AudioHandler) MarkPlayed(c *gin.Context) {
	id := c.Param("id")

	if err := h.library.MarkPlayed(id); err != nil {
		if errors.Is(err, domain.ErrAudioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "audio not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"played": id})
}

// ReadFile handles GET /api/v1/files/*path
func (h *AudioHandler) ReadFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("path"), "/")

	content, err := h.library.ReadFile(rel)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPath) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(content), content)
}
