package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/export"
	"github.com/joseph-ayodele/menu-extractor/internal/extract"
	"github.com/joseph-ayodele/menu-extractor/internal/llm/provider"
	"github.com/joseph-ayodele/menu-extractor/internal/pipeline"
	repo "github.com/joseph-ayodele/menu-extractor/internal/repository"
	"github.com/joseph-ayodele/menu-extractor/internal/server"
	"github.com/joseph-ayodele/menu-extractor/internal/storage"
)

func main() {
	common.LoadDotEnv()
	cfg := common.LoadConfig()

	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	// Credentials have no defaults: refuse to start without them.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repo.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := repo.HealthCheck(ctx, store, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	gen, err := provider.New(cfg.LLM, logger)
	if err != nil {
		logger.Error("failed to create LLM client", "error", err)
		os.Exit(2)
	}
	extractor, err := extract.NewExtractor(gen, logger, extract.WithResponseSchema(provider.SupportsResponseSchema(cfg.LLM)))
	if err != nil {
		logger.Error("failed to create extractor", "error", err)
		os.Exit(1)
	}
	processor := pipeline.NewProcessor(logger, extractor, store, cfg.Server.StrictPersistence)

	deps := server.Deps{
		Processor:      processor,
		Store:          store,
		Exporter:       export.NewService(store, logger),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	}
	if cfg.Archive.Bucket != "" {
		archive, err := storage.NewS3Archive(ctx, storage.Config{
			Bucket:    cfg.Archive.Bucket,
			Prefix:    cfg.Archive.Prefix,
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
		}, logger)
		if err != nil {
			logger.Error("failed to create upload archive", "error", err)
			os.Exit(1)
		}
		deps.Archive = archive
		logger.Info("archiving uploads", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}
	router := server.NewRouter(deps)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.GRPCHealthAddr != "" {
		hs := server.NewHealthServer(store, 15*time.Second, logger)
		go func() {
			if err := hs.Serve(ctx, cfg.Server.GRPCHealthAddr); err != nil {
				logger.Error("gRPC health serve error", "error", err)
			}
		}()
	}

	logger.Info("menu-extractor listening",
		"addr", cfg.Server.HTTPAddr,
		"llm_provider", cfg.LLM.Provider,
		"model", gen.Model(),
		"db_driver", cfg.Database.Driver,
	)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
}
