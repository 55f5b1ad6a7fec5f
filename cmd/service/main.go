package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/tunaaoguzhann/expiring-media/core"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// logger level comes from config, so fall back to a production logger
		zap.Must(zap.NewProduction()).Fatal("load config", zap.Error(err))
	}

	logger := buildLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	manager, err := core.NewManagerWithOptions(core.ManagerOptions{
		Secret:         cfg.HMACSecret,
		TTL:            cfg.TTL,
		RedisAddr:      cfg.RedisAddr,
		RedisKeyPrefix: cfg.RedisPrefix,
		RateLimit:      cfg.RateLimit,
		RateWindow:     cfg.RateWindow,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("init manager", zap.Error(err))
	}
	defer func() { _ = manager.Close() }()

	scheduler := cron.New()
	if _, err := core.ScheduleSweep(scheduler, cfg.SweepSchedule, manager, logger.Named("sweep")); err != nil {
		logger.Fatal("schedule sweep", zap.String("spec", cfg.SweepSchedule), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           newRouter(cfg, manager, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg conc.WaitGroup
	wg.Go(func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.Duration("ttl", cfg.TTL),
			zap.Bool("redis_rate_limit", cfg.RedisAddr != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	})
	scheduler.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	wg.Wait()
}

func buildLogger(level string) *zap.Logger {
	if level == "debug" {
		return zap.Must(zap.NewDevelopment())
	}
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	return zap.Must(cfg.Build())
}
