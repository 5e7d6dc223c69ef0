package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/api"
	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
	"github.com/yourusername/musicvault-go/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file (optional)")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting MusicVault server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("app_dir", config.Storage.AppDir))

	assets := infrastructure.NewAssetStore(config.Storage.AppDir)
	if err := assets.Init(); err != nil {
		log.Fatal("Failed to initialize asset store", zap.Error(err))
	}

	store := infrastructure.NewCatalogStore(config.Storage.AppDir, log)
	if _, err := store.Load(); err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	history, err := infrastructure.NewSQLiteHistoryRepository(config.Storage.HistoryPath)
	if err != nil {
		log.Fatal("Failed to initialize history repository", zap.Error(err))
	}
	defer history.Close()

	registry := infrastructure.NewDefaultRegistry(config.Download.FetchTimeout, log)

	downloader := app.NewDownloader(
		assets,
		registry,
		history,
		domain.SystemClock{},
		log,
		domain.FormatMP3,
		config.Download.ConcurrentLimit,
	)
	cache := app.NewCacheManager(assets, log)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	library := app.NewLibrary(store, assets, cache, downloader, domain.SystemClock{}, rng, log)

	router := api.SetupRouter(library, history, log)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
