package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nextbar/internal/cache"
	"nextbar/internal/config"
	"nextbar/internal/httpapi"
	"nextbar/internal/pipeline"
	"nextbar/internal/scheduler"
	"nextbar/internal/source"
	"nextbar/internal/store"
	"nextbar/internal/util"
	"nextbar/internal/venue"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "config/nextbar.yaml"
	if p := os.Getenv("NEXTBAR_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	yahoo := source.NewYahoo(source.YahooOpts{
		BaseURL:         cfg.Source.YahooBaseURL,
		Timeout:         time.Duration(cfg.Source.TimeoutSec) * time.Second,
		Retries:         cfg.Source.Retries,
		RateLimitPerMin: cfg.Source.RateLimitPerMin,
	})

	var src source.BarSource = yahoo
	if cfg.Source.Alpaca.APIKey != "" {
		alpaca := source.NewAlpaca(cfg.Source.Alpaca.APIKey, cfg.Source.Alpaca.APISecret, cfg.Source.Alpaca.DataURL)
		src = source.NewRouter(alpaca, yahoo)
		logger.Info("alpaca source enabled for US symbols")
	}

	resolver := venue.NewResolver(yahoo, 2*time.Second)

	p := pipeline.New(src, resolver, pipeline.Opts{
		LookbackDays: cfg.Source.LookbackDays,
		FetchTimeout: time.Duration(cfg.Source.TimeoutSec+5) * time.Second,
	})
	runner := cache.Wrap(p, time.Duration(cfg.Cache.TTLSec)*time.Second)

	var preds store.PredictionStore
	if cfg.Storage.SQLitePath != "" {
		preds, err = store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening prediction store: %v", err)
		}
		defer preds.Close()
		logger.Info("prediction store opened", "path", cfg.Storage.SQLitePath)
	}

	srv := httpapi.NewServer(runner, yahoo, preds, cfg.Server.CORSOrigins, logger)

	var warmer *scheduler.Warmer
	if cfg.Warm.Cron != "" && len(cfg.Warm.Symbols) > 0 {
		warmer = scheduler.NewWarmer(runner, cfg.Warm.Symbols, logger)
		if err := warmer.Register(cfg.Warm.Cron); err != nil {
			log.Fatalf("registering warm schedule: %v", err)
		}
		warmer.Start()
		logger.Info("cache warming scheduled", "cron", cfg.Warm.Cron, "symbols", len(cfg.Warm.Symbols))
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("nextbar server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if warmer != nil {
		warmer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
