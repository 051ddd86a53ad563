package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/api"
	"github.com/sagarsiwach/garmin-sync/internal/auth"
	"github.com/sagarsiwach/garmin-sync/internal/cache"
	"github.com/sagarsiwach/garmin-sync/internal/config"
	"github.com/sagarsiwach/garmin-sync/internal/garmin"
	"github.com/sagarsiwach/garmin-sync/internal/report"
	"github.com/sagarsiwach/garmin-sync/internal/session"
	httptransport "github.com/sagarsiwach/garmin-sync/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	client := buildClient(cfg, logger)
	sessions := session.NewManager(client, logger)
	builder := report.NewBuilder(client, sessions,
		report.WithLogger(logger),
		report.WithDetailLimit(cfg.ActivityDetailLimit))

	// Warm the session so the first request does not pay the login cost.
	// A failure here is survivable: the next request retries the login.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.GarminTimeout)
	if err := sessions.Ensure(warmCtx); err != nil {
		logger.Warn("initial Garmin login failed, will retry on first request", zap.Error(err))
	}
	cancelWarm()

	handler := api.NewHandler(builder, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	var root http.Handler = mux
	if cfg.JWTSecret != "" {
		middleware := auth.NewMiddleware(
			auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
			func(r *http.Request) bool {
				return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
			})
		root = middleware.Wrap(root)
		logger.Info("bearer token authentication enabled")
	}
	root = requestLogger(logger)(root)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, root, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildClient(cfg config.Config, logger *zap.Logger) *garmin.Client {
	var store cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = cache.NewRedis(rdb, logger)
		logger.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	return garmin.NewClient(garmin.ClientConfig{
		BaseURL:  cfg.GarminBaseURL,
		Email:    cfg.GarminEmail,
		Password: cfg.GarminPassword,
		Timeout:  cfg.GarminTimeout,
		Cache:    store,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
