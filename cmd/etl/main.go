package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cascadia-climate/snowfall-enso-etl/internal/adapter/noaa"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/adapter/wsdot"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/cache"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/config"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/observability"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/pipeline"
	"github.com/cascadia-climate/snowfall-enso-etl/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	dataStore := cache.NewStore(cfg.DataDir, metrics, logger)
	reportStore := cache.NewStore(cfg.ReportDir, metrics, logger)

	oniClient := noaa.NewClient(cfg.ONIBaseURL, cfg.HTTPTimeout, logger)
	snowClient := wsdot.NewClient(cfg.SnowfallBaseURL, cfg.HTTPTimeout, logger)
	writer := report.NewWriter(reportStore, logger)

	p := pipeline.New(dataStore, oniClient, snowClient, cfg.Passes, cfg.Years(), writer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, runErr := p.Run(ctx)

	if err := metrics.Push(cfg.PushgatewayURL, "snowfall-enso-etl"); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("run complete",
		"enso_years", result.ENSOYears,
		"snowfall_rows", result.SnowfallRows,
		"combined_rows", result.CombinedRows,
		"combined_path", result.CombinedPath,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
}
