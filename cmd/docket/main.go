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

	"github.com/docketlabs/docket/internal/audit"
	"github.com/docketlabs/docket/internal/config"
	dbRedis "github.com/docketlabs/docket/internal/db/redis"
	logpkg "github.com/docketlabs/docket/internal/logger"
	"github.com/docketlabs/docket/internal/metrics"
	chatrepo "github.com/docketlabs/docket/internal/repository/chat"
	evidencerepo "github.com/docketlabs/docket/internal/repository/evidence"
	processrepo "github.com/docketlabs/docket/internal/repository/process"
	chiTransport "github.com/docketlabs/docket/internal/transport/chi"
	openaiChat "github.com/docketlabs/docket/internal/transport/openai"
	chatuc "github.com/docketlabs/docket/internal/usecase/chat"
	evidenceuc "github.com/docketlabs/docket/internal/usecase/evidence"
	healthuc "github.com/docketlabs/docket/internal/usecase/health"
	ingestuc "github.com/docketlabs/docket/internal/usecase/ingest"
	processuc "github.com/docketlabs/docket/internal/usecase/process"
	transcriptuc "github.com/docketlabs/docket/internal/usecase/transcript"
	"github.com/docketlabs/docket/internal/version"
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

	logger.Info("Starting docket API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
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

	// Register ingest and chat metrics explicitly (no init())
	metrics.RegisterAppMetrics()

	// Conversational collaborator
	completer := openaiChat.NewCompleter(&openaiChat.Config{
		APIKey:   cfg.Chat.APIKey,
		BaseURL:  cfg.Chat.BaseURL,
		Model:    cfg.Chat.Model,
		Timeout:  time.Duration(cfg.Chat.TimeoutSec) * time.Second,
		Provider: cfg.Chat.Provider,
		Logger:   logger,
	})
	logger.Info("Chat provider created",
		zap.String("provider", cfg.Chat.Provider),
		zap.String("model", cfg.Chat.Model),
	)

	systemPrompt, err := cfg.SystemPrompt()
	if err != nil {
		logger.Fatal("Failed to read system prompt", zap.Error(err))
	}

	var auditRec chatuc.AuditRecorder = audit.Nop{}
	if cfg.Audit.Enabled {
		rec, err := audit.NewFileRecorder(cfg.Audit.Dir, logger)
		if err != nil {
			logger.Fatal("Failed to create audit recorder", zap.Error(err))
		}
		auditRec = rec
	}

	// Create repositories
	procRepo := processrepo.New(store)
	evRepo := evidencerepo.New(store)
	sessRepo := chatrepo.New(store)

	// Create use case services
	procSvc := processuc.New(procRepo)
	ingestSvc := ingestuc.New(evRepo, procRepo, logger)
	evidenceSvc := evidenceuc.New(evRepo, procRepo)
	transcriptSvc := transcriptuc.New(procRepo)
	chatSvc := chatuc.New(sessRepo, procRepo, completer, auditRec, systemPrompt, logger)
	healthSvc := healthuc.New(store, completer)

	// Create chi server
	server := chiTransport.NewServer(
		procSvc, ingestSvc, evidenceSvc, transcriptSvc, chatSvc, healthSvc, logger,
	)

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

			// Set X-Request-ID in response header
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
