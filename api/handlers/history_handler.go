package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicvault-go/internal/domain"
)

// HistoryHandler exposes the download history
type HistoryHandler struct {
	history domain.HistoryRepository
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history domain.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Recent handles GET /api/v1/downloads/history
func (h *HistoryHandler) Recent(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	records, err := h.history.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// Stats handles GET /api/v1/downloads/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.history.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
