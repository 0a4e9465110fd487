package marketdata

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata/writer"
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB  WriterType = "duckdb"
	WriterParquet WriterType = "parquet"
	WriterSQLite  WriterType = "sqlite"
)

// GetSupportedWriters returns all export formats.
func GetSupportedWriters() []WriterType {
	return []WriterType{WriterDuckDB, WriterParquet, WriterSQLite}
}

// NewWriter returns the writer for writerType, targeting path.
func NewWriter(writerType WriterType, path string) (writer.MarketDataWriter, error) {
	switch writerType {
	case WriterDuckDB:
		return writer.NewDuckDBWriter(path), nil
	case WriterParquet:
		return writer.NewParquetWriter(path), nil
	case WriterSQLite:
		return writer.NewSQLiteWriter(path), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidWriter, "unsupported writer type: %s", writerType)
	}
}

// Export writes bars to path in the given format and returns the written path.
func Export(ctx context.Context, bars []types.MarketData, writerType WriterType, path string) (outputPath string, err error) {
	marketWriter, err := NewWriter(writerType, path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create export directory for %s", path)
	}

	if err := marketWriter.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if closeErr := marketWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "export cancelled", err)
		}

		if err := marketWriter.Write(bar); err != nil {
			return "", err
		}
	}

	return marketWriter.Finalize()
}
