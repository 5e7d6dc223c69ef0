package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
)

// PlaylistHandler handles playlist HTTP requests
type PlaylistHandler struct {
	library *app.Library
	logger  *zap.Logger
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(library *app.Library, logger *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		library: library,
		logger:  logger,
	}
}

// CreatePlaylistRequest represents a request to create a playlist
type CreatePlaylistRequest struct {
	Name     string `json:"name" binding:"required"`
	Platform string `json:"platform"`
}

// RenamePlaylistRequest represents a request to rename a playlist
type RenamePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

// PlaylistAudioRequest identifies an audio to add to a playlist
type PlaylistAudioRequest struct {
	AudioID string `json:"audio_id" binding:"required"`
}

// ReorderRequest moves an audio to a new position
type ReorderRequest struct {
	AudioID  string `json:"audio_id" binding:"required"`
	Position int    `json:"position"`
}

// MergeRequest names the playlist whose audios should be absorbed
type MergeRequest struct {
	SourceID string `json:"source_id" binding:"required"`
}

// Create handles POST /api/v1/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform := domain.Platform(req.Platform)
	if platform == "" {
		platform = domain.PlatformLocal
	}
	if !domain.ValidatePlatform(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform"})
		return
	}

	playlist, err := h.library.CreatePlaylist(req.Name, platform)
	if err != nil {
		h.logger.Error("Failed to create playlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, playlist)
}

// List handles GET /api/v1/playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	catalog, err := h.library.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playlists": catalog.Playlists,
		"count":     len(catalog.Playlists),
	})
}

// Get handles GET /api/v1/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	catalog, err := h.library.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	playlist := catalog.FindPlaylist(c.Param("id"))
	if playlist == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// Delete handles DELETE /api/v1/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	removed, err := h.library.RemovePlaylist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// Rename handles PUT /api/v1/playlists/:id/name
func (h *PlaylistHandler) Rename(c *gin.Context) {
	var req RenamePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.library.RenamePlaylist(c.Param("id"), req.Name))
}

// AddAudio handles POST /api/v1/playlists/:id/audios
func (h *PlaylistHandler) AddAudio(c *gin.Context) {
	var req PlaylistAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.library.AddToPlaylist(c.Param("id"), req.AudioID))
}

// RemoveAudio handles DELETE /api/v1/playlists/:id/audios/:audioId
func (h *PlaylistHandler) RemoveAudio(c *gin.Context) {
	removed, err := h.library.RemoveFromPlaylist(c.Param("id"), c.Param("audioId"))
	if err != nil {
		h.respond(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio not in playlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": c.Param("audioId")})
}

// Reorder handles POST /api/v1/playlists/:id/reorder
func (h *PlaylistHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.library.ReorderPlaylist(c.Param("id"), req.AudioID, req.Position))
}

// Merge handles POST /api/v1/playlists/:id/merge
func (h *PlaylistHandler) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.library.MergePlaylists(c.Param("id"), req.SourceID))
}

// Duplicate handles POST /api/v1/playlists/:id/duplicate
func (h *PlaylistHandler) Duplicate(c *gin.Context) {
	copied, err := h.library.DuplicatePlaylist(c.Param("id"))
	if err != nil {
		h.respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, copied)
}

// Shuffle handles POST /api/v1/playlists/:id/shuffle
func (h *PlaylistHandler) Shuffle(c *gin.Context) {
	h.respond(c, h.library.ShufflePlaylist(c.Param("id")))
}

// respond maps domain errors to HTTP statuses for mutations with no body
func (h *PlaylistHandler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, domain.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
	case errors.Is(err, domain.ErrAudioNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "audio not found"})
	default:
		h.logger.Error("Playlist operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
