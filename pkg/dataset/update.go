package dataset

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"go.uber.org/zap"
)

// Status describes what Update did.
type Status string

const (
	// StatusUpdated means new bars were merged and the file was rewritten.
	StatusUpdated Status = "updated"
	// StatusNoFetchedData means the incoming batch was empty. Nothing was written.
	StatusNoFetchedData Status = "no_fetched_data"
	// StatusNoNewData means no incoming bar was newer than the dataset. Nothing was written.
	StatusNoNewData Status = "no_new_data"
)

// Result is the outcome of Update.
type Result struct {
	Status Status
	// Dataset is the dataset as it is on disk after Update.
	Dataset *Dataset
	// Previous is the latest timestamp before the update, None if there was no prior data.
	Previous optional.Option[time.Time]
	// Added is the number of rows appended.
	Added int
}

// Changed reports whether the file was rewritten.
func (r *Result) Changed() bool {
	return r.Status == StatusUpdated
}

type updateOptions struct {
	lock        bool
	lockTimeout time.Duration
	logger      *zap.Logger
}

// Option configures Update.
type Option func(*updateOptions)

// WithoutLock skips the advisory file lock. The caller must guarantee a single writer.
func WithoutLock() Option {
	return func(o *updateOptions) { o.lock = false }
}

// WithLockTimeout bounds how long Update waits for the file lock.
func WithLockTimeout(timeout time.Duration) Option {
	return func(o *updateOptions) { o.lockTimeout = timeout }
}

// WithLogger sets the logger Update reports progress to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *updateOptions) { o.logger = logger }
}

// Update merges bars into the dataset file at path.
//
// Bars not strictly newer than the latest existing timestamp are dropped. If nothing is
// left, or bars was empty to begin with, the file is not touched. Otherwise the existing
// rows and the new bars are merged (see Merge) and the whole file is rewritten atomically.
// The read-merge-write sequence holds the dataset lock unless WithoutLock is given.
func Update(ctx context.Context, path string, bars []types.MarketData, opts ...Option) (*Result, error) {
	options := updateOptions{
		lock:        true,
		lockTimeout: 0,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.logger.With(zap.String("path", path))

	if options.lock {
		unlock, err := Lock(ctx, path, options.lockTimeout)
		if err != nil {
			return nil, err
		}

		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("Failed to release dataset lock", zap.Error(err))
			}
		}()
	}

	existing, err := Load(path)
	if err != nil {
		return nil, err
	}

	last := existing.LastTimestamp()
	if last.IsSome() {
		logger.Info("Last datetime in dataset", zap.Time("last", last.Unwrap()), zap.Int("rows", existing.Len()))
	} else {
		logger.Info("No existing data found, starting fresh")
	}

	result := &Result{
		Status:   StatusNoFetchedData,
		Dataset:  existing,
		Previous: last,
		Added:    0,
	}

	if len(bars) == 0 {
		logger.Info("No data fetched")

		return result, nil
	}

	fresh := Filter(bars, last)
	if len(fresh) == 0 {
		logger.Info("No new data to append", zap.Int("fetched", len(bars)))

		result.Status = StatusNoNewData

		return result, nil
	}

	updated := &Dataset{
		Path:   path,
		Exists: true,
		Bars:   Merge(existing.Bars, fresh),
	}

	if err := Save(updated); err != nil {
		return nil, err
	}

	result.Status = StatusUpdated
	result.Dataset = updated
	// fresh bars are all newer than the existing rows, so only duplicates within the batch collapse
	result.Added = len(Merge(nil, fresh))

	logger.Info("Data updated", zap.Int("added", result.Added), zap.Int("total_rows", updated.Len()))

	return result, nil
}
