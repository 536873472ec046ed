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

	"github.com/cigarmaestro/searchd/internal/config"
	"github.com/cigarmaestro/searchd/internal/db"
	dbMemory "github.com/cigarmaestro/searchd/internal/db/memory"
	dbRedis "github.com/cigarmaestro/searchd/internal/db/redis"
	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
	logpkg "github.com/cigarmaestro/searchd/internal/logger"
	"github.com/cigarmaestro/searchd/internal/metrics"
	historyrepo "github.com/cigarmaestro/searchd/internal/repository/history"
	chiTransport "github.com/cigarmaestro/searchd/internal/transport/chi"
	cataloguc "github.com/cigarmaestro/searchd/internal/usecase/catalog"
	healthuc "github.com/cigarmaestro/searchd/internal/usecase/health"
	historyuc "github.com/cigarmaestro/searchd/internal/usecase/history"
	searchuc "github.com/cigarmaestro/searchd/internal/usecase/search"
	"github.com/cigarmaestro/searchd/internal/version"
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
	zap.ReplaceGlobals(logger)

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Create key-value store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}

	// History: persisted through the store, loaded on startup
	historyStore := historyrepo.New(store, cfg.Storage.KeyPrefix)
	historySvc := historyuc.New(historyStore, cfg.History.MaxSize, logger)
	historySvc.Load(ctx)
	logger.Info("Search history loaded", zap.Int("entries", historySvc.Size()))

	// Query engine over the default cigar catalog schemas and facets
	engine := searchuc.NewEngine(
		schema.Defaults(), facet.Defaults(), searchuc.DefaultWeights(), historySvc, logger,
	).WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit, cfg.Search.FuzzyThreshold)

	// Catalog: initial load is fatal, periodic refresh is best-effort
	catalogSvc := cataloguc.New(
		cfg.Catalog.DataDir, cfg.Catalog.Sources, cfg.Catalog.OptionalSources, engine, logger,
	)
	if err := catalogSvc.Load(ctx); err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	if cfg.Catalog.RefreshIntervalMin > 0 {
		go catalogSvc.Refresh(refreshCtx, time.Duration(cfg.Catalog.RefreshIntervalMin)*time.Minute)
	}

	healthSvc := healthuc.New(store, engine)

	server := chiTransport.NewServer(engine, historySvc, catalogSvc, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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
	stopRefresh()

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
