package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TradeScout/internal/cache"
	"TradeScout/internal/config"
	"TradeScout/internal/fetch"
	"TradeScout/internal/notifier"
	"TradeScout/internal/recorder"
	"TradeScout/internal/scanner"
	"TradeScout/internal/scheduler"
	"TradeScout/internal/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Msg("TradeScout starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	var fetcher fetch.Fetcher
	if os.Getenv("USE_MOCK_DATA") == "true" {
		fetcher = fetch.NewMockFetcher(200)
	} else {
		fetcher = fetch.NewRolimonsFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.RateLimitDelay)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	store, err := cache.New(cfg.Cache.Dir, time.Duration(cfg.Cache.MaxAgeHours)*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("init cache")
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	dn := notifier.NewDiscordNotifier(cfg.Discord.WebhookURL, cfg.Discord.RoleID, cfg.Proxy,
		cfg.Discord.AlertThreshold, cfg.Discord.ConfidenceThreshold)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scan := scanner.New(cfg, fetcher, store, rec, dn)

	sched := scheduler.New(ctx, scan)
	if err := sched.Register(cfg.Scan.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg.HTTP.ListenAddr, scan, store)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	if cfg.Discord.WebhookURL != "" {
		if err := dn.SendSystemAlert(ctx, "🚀 TradeScout started and scanning", "success"); err != nil {
			log.Warn().Err(err).Msg("startup notification failed")
		}
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	log.Info().Msg("TradeScout is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if cfg.Discord.WebhookURL != "" {
		_ = dn.SendSystemAlert(shutdownCtx, "🛑 TradeScout shutting down", "warning")
	}
	log.Info().Msg("TradeScout stopped")
}
