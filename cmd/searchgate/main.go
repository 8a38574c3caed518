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
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/cache"
	"github.com/kailas-cloud/searchgate/internal/config"
	dbRedis "github.com/kailas-cloud/searchgate/internal/db/redis"
	bleveIndex "github.com/kailas-cloud/searchgate/internal/index/bleve"
	logpkg "github.com/kailas-cloud/searchgate/internal/logger"
	"github.com/kailas-cloud/searchgate/internal/metrics"
	"github.com/kailas-cloud/searchgate/internal/query"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
	chiTransport "github.com/kailas-cloud/searchgate/internal/transport/chi"
	documentuc "github.com/kailas-cloud/searchgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
	"github.com/kailas-cloud/searchgate/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index_path", cfg.Index.Path),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create key-value store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Key-value store not ready", zap.Error(err))
	}
	logger.Info("Connected to key-value store")

	engine, err := openIndex(cfg.Index)
	if err != nil {
		logger.Fatal("Failed to open index", zap.Error(err))
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("Failed to close index", zap.Error(err))
		}
	}()

	// Register serving-path metrics explicitly (no init())
	metrics.RegisterCoreMetrics()

	keys := cache.NewKeys(cfg.Cache.KeyPrefix)
	cacheLayer := cache.New(store, keys, cache.Config{
		SearchTTL:   time.Duration(cfg.Cache.SearchTTLSec) * time.Second,
		DocumentTTL: time.Duration(cfg.Cache.DocumentTTLSec) * time.Second,
		Timeout:     time.Duration(cfg.Cache.TimeoutMs) * time.Millisecond,
	}, metrics.CacheTotal, logger)

	limiter := ratelimit.New(store, ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      time.Duration(cfg.RateLimit.WindowMs) * time.Millisecond,
		KeyPrefix:   cfg.Cache.KeyPrefix,
		Timeout:     time.Duration(cfg.RateLimit.TimeoutMs) * time.Millisecond,
	}, metrics.RateLimitDecisions, logger)

	planner := query.New()
	engineTimeout := time.Duration(cfg.Index.QueryTimeoutMs) * time.Millisecond

	searchSvc := searchuc.New(limiter, cacheLayer, planner, engine, logger).
		WithEngineTimeout(engineTimeout)
	docSvc := documentuc.New(limiter, cacheLayer, engine, logger).
		WithEngineTimeout(engineTimeout)
	healthSvc := healthuc.New(store, engine)

	server := chiTransport.NewServer(searchSvc, docSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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

func openIndex(cfg config.IndexConfig) (*bleveIndex.Store, error) {
	if cfg.InMemory {
		return bleveIndex.OpenMem()
	}
	return bleveIndex.Open(cfg.Path)
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
