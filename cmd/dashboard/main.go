package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"NexusStream/internal/collector"
	"NexusStream/internal/config"
	"NexusStream/internal/render"
	"NexusStream/internal/scheduler"
	"NexusStream/internal/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()

	// .env never overrides variables already set in the environment.
	if os.Getenv("NO_DOTENV") != "1" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("loading .env")
		}
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn().Str("level", cfg.Log.Level).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)
	logger.Info().Msg("NexusStream starting...")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source selected")

	col := collector.NewCollector(fetcher, logger)

	sched := scheduler.NewScheduler(col, cfg.DataSource.Symbol, cfg.Dashboard.TailRows, logger)
	if err := sched.Register(cfg.RefreshSpec()); err != nil {
		logger.Fatal().Err(err).Msg("register refresh task")
	}

	tickers := make([]render.TickerRef, len(cfg.Dashboard.PopularTickers))
	for i, t := range cfg.Dashboard.PopularTickers {
		tickers[i] = render.TickerRef{Name: t.Name, Symbol: t.Symbol}
	}
	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		Title:          cfg.Server.Title,
		RefreshSeconds: cfg.Schedule.RefreshSeconds,
		Tickers:        tickers,
		Logger:         logger,
	}, sched)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe(ctx) }()

	// First cycle runs before the timer starts so cycles never overlap.
	sched.RunNow()
	sched.Start()

	logger.Info().Msg("NexusStream is running. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, stopping...")
		sched.Stop()
		if err := <-srvErr; err != nil {
			logger.Error().Err(err).Msg("dashboard shutdown")
		}
	case err := <-srvErr:
		if err != nil {
			logger.Error().Err(err).Msg("dashboard server")
		}
		sched.Stop()
	}
	logger.Info().Msg("NexusStream stopped")
}
