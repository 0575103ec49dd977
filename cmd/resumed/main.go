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

	"github.com/joho/godotenv"

	"github.com/hrcopilot/resume-tracker/internal/async"
	"github.com/hrcopilot/resume-tracker/internal/audit"
	"github.com/hrcopilot/resume-tracker/internal/candidates"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/export"
	"github.com/hrcopilot/resume-tracker/internal/filestore"
	"github.com/hrcopilot/resume-tracker/internal/ingest"
	"github.com/hrcopilot/resume-tracker/internal/llm"
	"github.com/hrcopilot/resume-tracker/internal/pipeline"
	"github.com/hrcopilot/resume-tracker/internal/repository"
	"github.com/hrcopilot/resume-tracker/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.EnsureSchema(ctx, pool, logger); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	auditStore, err := audit.Open(cfg.Audit.DBPath, logger)
	if err != nil {
		logger.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := auditStore.Close(); err != nil {
			logger.Warn("audit store close error", "error", err)
		}
	}()

	trail := llm.NewAuditTrail(logger, auditStore)
	oracle := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, trail, logger)

	files, err := filestore.New(cfg.Upload.Dir, logger)
	if err != nil {
		logger.Error("failed to prepare upload dir", "error", err)
		os.Exit(1)
	}

	jobsRepo := repository.NewExtractionJobRepository(pool, logger)
	candidatesRepo := repository.NewCandidateRepository(pool, logger)

	candidateService := candidates.NewService(candidatesRepo, oracle, logger)
	exportService := export.NewService(candidatesRepo, logger)

	processor := pipeline.NewProcessor(logger, jobsRepo, oracle, candidateService)
	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
	)

	ingestService := ingest.NewService(files, jobsRepo, candidatesRepo, queue, cfg.Upload.MaxFileSize, logger)

	srv := server.New(ingestService, jobsRepo, candidateService, exportService, auditStore, pool, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("resume-tracker listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
