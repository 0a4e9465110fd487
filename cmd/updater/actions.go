package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/internal/config"
	"github.com/rxtech-lab/intraday-dataset/internal/inspect"
	"github.com/rxtech-lab/intraday-dataset/internal/logger"
	"github.com/rxtech-lab/intraday-dataset/internal/updater"
	"github.com/rxtech-lab/intraday-dataset/pkg/dataset"
	"github.com/rxtech-lab/intraday-dataset/pkg/kaggle"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata"
)

// runAction wires the clients from the configuration and performs one update run.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if cmd.Bool("skip-download") {
		cfg.Host.SkipDownload = true
	}

	if cmd.Bool("push") {
		cfg.Upload.Enabled = true
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	host, err := kaggle.NewClient(
		kaggle.WithBaseURL(cfg.Host.BaseURL),
		kaggle.WithTimeout(cfg.Host.Timeout),
		kaggle.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}

	fetcher, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cfg.Market.Provider),
		PolygonApiKey: cfg.Market.PolygonAPIKey,
	}, log.Logger)
	if err != nil {
		return err
	}

	inspector, err := inspect.New(log)
	if err != nil {
		return err
	}
	defer inspector.Close()

	u := updater.NewUpdater(host, fetcher, cfg, log, updater.WithSummarizer(inspector))

	_, err = u.Run(ctx)

	return err
}

// mergeAction merges a local CSV of bars into a dataset file.
func mergeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	input, err := dataset.Load(cmd.String("input"))
	if err != nil {
		return err
	}

	if !input.Exists {
		log.Warn("Input file does not exist", zap.String("input", cmd.String("input")))
	}

	opts := []dataset.Option{dataset.WithLogger(log.Logger)}
	if timeout := cmd.Duration("lock-timeout"); timeout > 0 {
		opts = append(opts, dataset.WithLockTimeout(timeout))
	}

	result, err := dataset.Update(ctx, cmd.String("dataset"), input.Bars, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "%s: %d rows added, %d rows total\n", result.Status, result.Added, result.Dataset.Len())

	return nil
}

// inspectAction prints a summary of a dataset file.
func inspectAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel("warn")
	if err != nil {
		return err
	}
	defer log.Sync()

	inspector, err := inspect.New(log)
	if err != nil {
		return err
	}
	defer inspector.Close()

	path := cmd.String("dataset")

	summary, err := inspector.Summarize(ctx, path)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer

	fmt.Fprintf(out, "path:       %s\n", summary.Path)
	fmt.Fprintf(out, "rows:       %d\n", summary.Rows)
	fmt.Fprintf(out, "duplicates: %d\n", summary.Duplicates())
	fmt.Fprintf(out, "days:       %d\n", summary.Days)
	fmt.Fprintf(out, "first:      %s\n", formatTime(summary.First))
	fmt.Fprintf(out, "last:       %s\n", formatTime(summary.Last))

	days := cmd.Int("days")
	if days <= 0 || summary.Last.IsNone() {
		return nil
	}

	since := summary.Last.Unwrap().AddDate(0, 0, -(int(days) - 1))

	counts, err := inspector.DailyCounts(ctx, path, optional.Some(since))
	if err != nil {
		return err
	}

	for _, count := range counts {
		fmt.Fprintf(out, "%s  %d\n", count.Day.Format(time.DateOnly), count.Bars)
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	infos := make([]marketdata.ProviderInfo, 0)

	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		infos = append(infos, info)
	}

	encoder := json.NewEncoder(cmd.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(infos)
}

func formatTime(t optional.Option[time.Time]) string {
	if t.IsNone() {
		return "-"
	}

	return t.Unwrap().Format(dataset.TimeLayout)
}
