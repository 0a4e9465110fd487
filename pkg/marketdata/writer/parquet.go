package writer

import (
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// ParquetRow is the on-disk layout of one bar in a Parquet export.
type ParquetRow struct {
	Datetime time.Time `parquet:"datetime"`
	Symbol   string    `parquet:"symbol"`
	Open     float64   `parquet:"open"`
	High     float64   `parquet:"high"`
	Low      float64   `parquet:"low"`
	Close    float64   `parquet:"close"`
	Volume   float64   `parquet:"volume"`
}

// ParquetWriter buffers bars and writes them in one pass with parquet-go on Finalize.
type ParquetWriter struct {
	rows        []ParquetRow
	initialized bool
	outputPath  string
}

// NewParquetWriter creates a new ParquetWriter.
func NewParquetWriter(outputPath string) MarketDataWriter {
	return &ParquetWriter{
		outputPath: outputPath,
	}
}

func (w *ParquetWriter) Initialize() error {
	w.rows = w.rows[:0]
	w.initialized = true

	return nil
}

func (w *ParquetWriter) Write(data types.MarketData) error {
	if !w.initialized {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.rows = append(w.rows, ParquetRow{
		Datetime: data.Time,
		Symbol:   data.Symbol,
		Open:     data.Open,
		High:     data.High,
		Low:      data.Low,
		Close:    data.Close,
		Volume:   data.Volume,
	})

	return nil
}

// Finalize sorts the buffered rows by datetime and writes the file.
func (w *ParquetWriter) Finalize() (string, error) {
	if !w.initialized {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	slices.SortStableFunc(w.rows, func(a, b ParquetRow) int {
		return a.Datetime.Compare(b.Datetime)
	})

	if err := parquet.WriteFile(w.outputPath, w.rows); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write parquet file %s", w.outputPath)
	}

	w.initialized = false

	return w.outputPath, nil
}

func (w *ParquetWriter) Close() error {
	w.rows = nil
	w.initialized = false

	return nil
}

// GetOutputPath returns the configured output file path.
func (w *ParquetWriter) GetOutputPath() string {
	return w.outputPath
}
