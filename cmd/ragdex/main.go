package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain/chunk"
	"github.com/kailas-cloud/ragdex/internal/extract"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	blobrepo "github.com/kailas-cloud/ragdex/internal/repository/blob"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
	indexrepo "github.com/kailas-cloud/ragdex/internal/repository/index"
	statusrepo "github.com/kailas-cloud/ragdex/internal/repository/status"
	chiTransport "github.com/kailas-cloud/ragdex/internal/transport/chi"
	openaiProvider "github.com/kailas-cloud/ragdex/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragdex/internal/usecase/answer"
	documentuc "github.com/kailas-cloud/ragdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdex/internal/usecase/ingest"
	statsuc "github.com/kailas-cloud/ragdex/internal/usecase/stats"
	"github.com/kailas-cloud/ragdex/internal/version"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterProviderMetrics()
	metrics.RegisterIngestMetrics()

	embedder := openaiProvider.NewEmbedder(&openaiProvider.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	generator := openaiProvider.NewGenerator(&openaiProvider.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Logger:      logger,
	})
	// Cache embeddings so re-ingested chunks and repeated queries skip the provider.
	cachedEmbedder := embcache.New(embedder, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("generation_model", cfg.Generation.Model),
	)

	// Repositories
	indexRepo := indexrepo.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions, cfg.Index.UpsertBatchSize)
	statusRepo := statusrepo.New(store, cfg.Storage.KeyPrefix)
	blobStore, err := blobrepo.New(cfg.Storage.BlobDir)
	if err != nil {
		logger.Fatal("Failed to create blob store", zap.Error(err))
	}

	// Ingestion pipeline + worker pool
	splitter := chunk.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	ingestSvc := ingestuc.New(statusRepo, blobStore, extract.Extractor{}, splitter, cachedEmbedder, indexRepo)
	queue := ingestuc.NewQueue(ingestSvc, cfg.Ingest.QueueSize, logger)
	queue.Start(ctx, cfg.Ingest.Workers)
	defer queue.Stop()

	// Use case services
	docSvc := documentuc.New(
		statusRepo, blobStore, indexRepo, queue, extract.Supported,
		int64(cfg.Ingest.MinFileSize), int64(cfg.Ingest.MaxFileSize),
	)
	answerSvc := answeruc.New(
		cachedEmbedder, indexRepo, generator,
		cfg.Index.TopK, cfg.Index.ContextCharLimit, cfg.Index.MaxQueryLen,
	)
	statsSvc := statsuc.New(indexRepo)
	healthSvc := healthuc.New(store, map[string]healthuc.ProviderChecker{
		"embedding":  embedder,
		"generation": generator,
	})

	// Multipart framing overhead on top of the largest accepted file.
	maxUploadBytes := int64(cfg.Ingest.MaxFileSize) + 1024*1024
	server := chiTransport.NewServer(docSvc, answerSvc, statsSvc, healthSvc, maxUploadBytes, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.Tenants))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
