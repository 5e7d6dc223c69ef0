package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/api/handlers"
	"github.com/yourusername/musicvault-go/api/middleware"
	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
)

// SetupRouter sets up the HTTP router
func SetupRouter(library *app.Library, history domain.HistoryRepository, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(library)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		audioHandler := handlers.NewAudioHandler(library, log)
		audios := v1.Group("/audios")
		{
			audios.POST("", audioHandler.Download)
			audios.POST("/batch", audioHandler.DownloadBatch)
			audios.GET("", audioHandler.List)
			audios.DELETE("/:id", audioHandler.Delete)
			audios.POST("/:id/played", audioHandler.MarkPlayed)
		}
		v1.GET("/files/*path", audioHandler.ReadFile)

		storageHandler := handlers.NewStorageHandler(library, log)
		storage := v1.Group("/storage")
		{
			storage.GET("/usage", storageHandler.Usage)
			storage.POST("/cleanup", storageHandler.Cleanup)
		}

		settingsHandler := handlers.NewSettingsHandler(library, log)
		v1.GET("/settings", settingsHandler.Get)
		v1.PUT("/settings", settingsHandler.Update)

		historyHandler := handlers.NewHistoryHandler(history)
		downloads := v1.Group("/downloads")
		{
			downloads.GET("/history", historyHandler.Recent)
			downloads.GET("/stats", historyHandler.Stats)
		}

		playlistHandler := handlers.NewPlaylistHandler(library, log)
		playlists := v1.Group("/playlists")
		{
			playlists.POST("", playlistHandler.Create)
			playlists.GET("", playlistHandler.List)
			playlists.GET("/:id", playlistHandler.Get)
			playlists.DELETE("/:id", playlistHandler.Delete)
			playlists.PUT("/:id/name", playlistHandler.Rename)
			playlists.POST("/:id/audios", playlistHandler.AddAudio)
			playlists.DELETE("/:id/audios/:audioId", playlistHandler.RemoveAudio)
			playlists.POST("/:id/reorder", playlistHandler.Reorder)
			playlists.POST("/:id/merge", playlistHandler.Merge)
			playlists.POST("/:id/duplicate", playlistHandler.Duplicate)
			playlists.POST("/:id/shuffle", playlistHandler.Shuffle)
		}
	}

	return router
}
