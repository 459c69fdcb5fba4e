package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/config"
	"github.com/kailas-cloud/overlap/internal/db"
	"github.com/kailas-cloud/overlap/internal/db/memory"
	dbRedis "github.com/kailas-cloud/overlap/internal/db/redis"
	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
	"github.com/kailas-cloud/overlap/internal/engine"
	"github.com/kailas-cloud/overlap/internal/extract"
	logpkg "github.com/kailas-cloud/overlap/internal/logger"
	"github.com/kailas-cloud/overlap/internal/metrics"
	comparisonrepo "github.com/kailas-cloud/overlap/internal/repository/comparison"
	submissionrepo "github.com/kailas-cloud/overlap/internal/repository/submission"
	chiTransport "github.com/kailas-cloud/overlap/internal/transport/chi"
	analysisuc "github.com/kailas-cloud/overlap/internal/usecase/analysis"
	healthuc "github.com/kailas-cloud/overlap/internal/usecase/health"
	submissionuc "github.com/kailas-cloud/overlap/internal/usecase/submission"
	"github.com/kailas-cloud/overlap/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting overlap API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register analysis metrics explicitly (no init())
	metrics.RegisterAnalysisMetrics()

	algo, err := algorithm.Parse(cfg.Analysis.Algorithm)
	if err != nil {
		logger.Fatal("Invalid analysis algorithm", zap.Error(err))
	}
	comparer, err := engine.NewComparer(algo)
	if err != nil {
		logger.Fatal("Failed to create comparer", zap.Error(err))
	}
	comparer = comparer.WithWorkers(cfg.Analysis.Workers).WithLogger(logger.Named("engine"))
	logger.Info("Comparer created",
		zap.String("algorithm", string(comparer.Algorithm())),
		zap.Int("workers", comparer.Workers()),
	)

	// Create repositories
	subRepo := submissionrepo.New(store, cfg.Storage.KeyPrefix)
	resultRepo := comparisonrepo.New(store, cfg.Storage.KeyPrefix)

	// Create use case services
	subSvc := submissionuc.New(subRepo, extract.Extract).
		WithMaxFiles(cfg.Upload.MaxFiles).
		WithMaxFileBytes(cfg.Upload.MaxFileBytes)
	analysisSvc := analysisuc.New(subRepo, resultRepo, comparer, logger).
		WithMaxDocuments(cfg.Analysis.MaxDocuments)
	healthSvc := healthuc.New(store, analysisSvc)

	// Create chi server
	server := chiTransport.NewServer(subSvc, analysisSvc, healthSvc, logger).
		WithUploadLimits(cfg.Upload.MaxFiles, cfg.Upload.MaxFileBytes).
		WithAnalysisTimeout(time.Duration(cfg.Analysis.TimeoutSec) * time.Second)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.HTTP.CORSOrigins))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// newStore creates the database store for the configured driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			ctx := logpkg.With(logpkg.ContextWithLogger(r.Context(), logger),
				zap.String("request_id", requestID))

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			logpkg.FromContext(ctx).Info("http_request",
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
