package updater

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/internal/config"
	"github.com/rxtech-lab/intraday-dataset/internal/inspect"
	"github.com/rxtech-lab/intraday-dataset/internal/logger"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/dataset"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata"
)

// DatasetHost stores the published dataset.
type DatasetHost interface {
	// DownloadMetadata writes the dataset metadata file into dir and returns its path.
	DownloadMetadata(ctx context.Context, datasetID string, dir string) (string, error)
	// DownloadDataset downloads and unpacks the dataset files into dir.
	DownloadDataset(ctx context.Context, datasetID string, dir string) ([]string, error)
	// CreateVersion publishes files as a new dataset version.
	CreateVersion(ctx context.Context, datasetID string, files []string, notes string) error
}

// BarFetcher returns the latest bars of an instrument.
type BarFetcher interface {
	FetchBars(ctx context.Context, params marketdata.FetchParams) ([]types.MarketData, error)
}

// Summarizer describes a dataset file after it was written.
type Summarizer interface {
	Summarize(ctx context.Context, path string) (inspect.Summary, error)
}

// Report is what one run did.
type Report struct {
	StartedAt time.Time
	// MetadataPath is empty when the download was skipped.
	MetadataPath string
	Downloaded   []string
	Fetched      int
	Result       *dataset.Result
	Exports      []string
	Summary      optional.Option[inspect.Summary]
	Pushed       bool
}

type Updater struct {
	host       DatasetHost
	fetcher    BarFetcher
	summarizer Summarizer
	cfg        config.Config
	logger     *logger.Logger
	now        func() time.Time
}

// Option configures an Updater.
type Option func(*Updater)

// WithSummarizer logs a summary of the dataset after every successful update.
func WithSummarizer(summarizer Summarizer) Option {
	return func(u *Updater) {
		u.summarizer = summarizer
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		u.now = now
	}
}

func NewUpdater(host DatasetHost, fetcher BarFetcher, cfg config.Config, log *logger.Logger, opts ...Option) *Updater {
	u := &Updater{
		host:    host,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Run downloads the published dataset, merges the latest bars into it and, when something
// changed, writes the exports and publishes a new version. Runs that find no fetched or no
// new bars end without error.
func (u *Updater) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: u.now().UTC(), Summary: optional.None[inspect.Summary]()}
	path := u.cfg.DatasetPath()

	u.logger.Info("Starting dataset update",
		zap.Time("utc", report.StartedAt),
		zap.String("dataset", u.cfg.Dataset.ID),
		zap.String("path", path),
	)

	if err := os.MkdirAll(u.cfg.Dataset.Dir, 0o755); err != nil {
		return report, errors.Wrapf(errors.ErrCodeDatasetWriteFailed, err, "failed to create %s", u.cfg.Dataset.Dir)
	}

	if err := u.download(ctx, &report); err != nil {
		return report, err
	}

	bars, err := u.fetch(ctx)
	if err != nil {
		return report, err
	}

	report.Fetched = len(bars)

	result, err := dataset.Update(ctx, path, bars,
		dataset.WithLockTimeout(u.cfg.Dataset.LockTimeout),
		dataset.WithLogger(u.logger.Logger),
	)
	if err != nil {
		return report, err
	}

	report.Result = result

	switch result.Status {
	case dataset.StatusNoFetchedData:
		u.logger.Warn("No data fetched from provider, dataset left unchanged",
			zap.String("provider", u.cfg.Market.Provider),
			zap.String("symbol", u.cfg.Market.Symbol),
			zap.String("exchange", u.cfg.Market.Exchange),
		)

		return report, nil
	case dataset.StatusNoNewData:
		u.logger.Info("No new data, dataset left unchanged", zap.Int("fetched", len(bars)))

		return report, nil
	case dataset.StatusUpdated:
	}

	if err := u.export(ctx, result, &report); err != nil {
		return report, err
	}

	u.summarize(ctx, path, &report)

	if u.cfg.Upload.Enabled {
		if err := u.host.CreateVersion(ctx, u.cfg.Dataset.ID, []string{path}, u.cfg.Upload.Notes); err != nil {
			return report, err
		}

		report.Pushed = true
	}

	u.logger.Info("Dataset update finished",
		zap.Int("added", result.Added),
		zap.Int("rows", result.Dataset.Len()),
		zap.Bool("pushed", report.Pushed),
	)

	return report, nil
}

func (u *Updater) download(ctx context.Context, report *Report) error {
	if u.cfg.Host.SkipDownload {
		u.logger.Info("Skipping dataset download")

		return nil
	}

	metadataPath, err := u.host.DownloadMetadata(ctx, u.cfg.Dataset.ID, u.cfg.Dataset.Dir)
	if err != nil {
		return err
	}

	report.MetadataPath = metadataPath

	files, err := u.host.DownloadDataset(ctx, u.cfg.Dataset.ID, u.cfg.Dataset.Dir)
	if err != nil {
		return err
	}

	report.Downloaded = files

	// merging into an empty file here would publish only the fetched window
	if !slices.Contains(files, u.cfg.DatasetPath()) {
		u.logger.Error("Dataset archive does not contain the dataset file",
			zap.String("file", u.cfg.Dataset.File),
			zap.Strings("files", files),
		)

		return errors.Newf(errors.ErrCodeDatasetNotFound,
			"dataset %s has no file %s, use skip_download to start a new one", u.cfg.Dataset.ID, u.cfg.Dataset.File)
	}

	return nil
}

func (u *Updater) fetch(ctx context.Context) ([]types.MarketData, error) {
	interval, err := marketdata.ParseTimespan(u.cfg.Market.Interval)
	if err != nil {
		return nil, err
	}

	loc, err := u.cfg.Location()
	if err != nil {
		return nil, err
	}

	return u.fetcher.FetchBars(ctx, marketdata.FetchParams{
		Symbol:   u.cfg.Market.Symbol,
		Exchange: u.cfg.Market.Exchange,
		Interval: interval,
		BarCount: u.cfg.BarCount(),
		Location: loc,
	})
}

func (u *Updater) export(ctx context.Context, result *dataset.Result, report *Report) error {
	for _, export := range u.cfg.Exports {
		out, err := marketdata.Export(ctx, result.Dataset.Bars, marketdata.WriterType(export.Format), export.Path)
		if err != nil {
			return err
		}

		u.logger.Info("Exported dataset", zap.String("format", export.Format), zap.String("path", out))
		report.Exports = append(report.Exports, out)
	}

	return nil
}

// summarize logs a dataset summary. Failures are logged and do not fail the run.
func (u *Updater) summarize(ctx context.Context, path string, report *Report) {
	if u.summarizer == nil {
		return
	}

	summary, err := u.summarizer.Summarize(ctx, path)
	if err != nil {
		u.logger.Warn("Failed to summarize dataset", zap.Error(err))

		return
	}

	report.Summary = optional.Some(summary)

	fields := []zap.Field{
		zap.Int64("rows", summary.Rows),
		zap.Int64("days", summary.Days),
	}
	if summary.Last.IsSome() {
		fields = append(fields, zap.Time("last", summary.Last.Unwrap()))
	}

	u.logger.Info("Dataset summary", fields...)
}
