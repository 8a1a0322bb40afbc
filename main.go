package main

import (
	"context"
	"dallasdresses_server/api"
	"dallasdresses_server/config"
	"dallasdresses_server/database"
	"dallasdresses_server/repository"
	"dallasdresses_server/repository/memstore"
	"dallasdresses_server/repository/pgstore"
	"dallasdresses_server/services"
	"dallasdresses_server/structs"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize storage", gecho.Field("error", err), gecho.Field("driver", cfg.Storage.Driver))
	}
	defer closeStore()

	cache := services.NewCacheService(logger, cfg)
	defer cache.Close()

	sm := services.NewServiceManager(logger, cfg, store, cache, services.NewEmailService(logger, cfg))

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}

// openStore builds the repository set for the configured storage driver
func openStore(ctx context.Context) (*repository.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}, nil
	case "postgres":
		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return pgstore.New(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
