package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront_server/api"
	"storefront_server/config"
	"storefront_server/database"
	"storefront_server/services"
	"storefront_server/structs"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sm := services.NewServiceManager(logger, cfg, database.GetInstance())

	if err := sm.OfferService.EnsureOffer(ctx); err != nil {
		logger.Fatal("Failed to seed bundle offer", gecho.Field("error", err))
	}
	if err := sm.StorageService.EnsureDir(); err != nil {
		logger.Fatal("Failed to create upload directory", gecho.Field("error", err), gecho.Field("dir", cfg.Storage.UploadDir))
	}

	var worker *services.ExpiryWorker
	if cfg.Worker.Enabled {
		worker = services.NewExpiryWorker(logger, sm.OrderService, cfg.Worker.Interval, cfg.Worker.PendingOrderTTL)
		worker.Start()
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Failed to start server", gecho.Field("error", err))
		}
	}

	shutdown(server, worker, sm)
}

// shutdown stops accepting requests, then releases background work and connections
func shutdown(server *http.Server, worker *services.ExpiryWorker, sm *services.ServiceManager) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown did not complete", gecho.Field("error", err))
	}
	if worker != nil {
		worker.Stop()
	}
	if err := sm.CacheService.Close(); err != nil {
		logger.Warn("Failed to close cache connection", gecho.Field("error", err))
	}
	if err := database.CloseInstance(); err != nil {
		logger.Warn("Failed to close database", gecho.Field("error", err))
	}
	logger.Info("Server stopped")
}
