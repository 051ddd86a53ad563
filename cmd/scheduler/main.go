package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/cache"
	"github.com/sagarsiwach/garmin-sync/internal/config"
	"github.com/sagarsiwach/garmin-sync/internal/garmin"
	"github.com/sagarsiwach/garmin-sync/internal/report"
	"github.com/sagarsiwach/garmin-sync/internal/scheduler"
	"github.com/sagarsiwach/garmin-sync/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

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

	client := garmin.NewClient(garmin.ClientConfig{
		BaseURL:  cfg.GarminBaseURL,
		Email:    cfg.GarminEmail,
		Password: cfg.GarminPassword,
		Timeout:  cfg.GarminTimeout,
		Cache:    store,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
	sessions := session.NewManager(client, logger)
	builder := report.NewBuilder(client, sessions,
		report.WithLogger(logger),
		report.WithDetailLimit(cfg.ActivityDetailLimit))

	sched := scheduler.New(builder, scheduler.Config{
		ReportTime:   cfg.ReportTime,
		ReportDir:    cfg.ReportDir,
		RunOnStartup: cfg.RunOnStartup,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("scheduler error", zap.Error(err))
	}
}
