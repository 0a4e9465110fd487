package writer

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

func sampleBars() []types.MarketData {
	start := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)

	return []types.MarketData{
		{Symbol: "NSE:NIFTY", Time: start.Add(2 * time.Minute), Open: 3, High: 3.5, Low: 2.5, Close: 3.2, Volume: 300},
		{Symbol: "NSE:NIFTY", Time: start, Open: 1, High: 1.5, Low: 0.5, Close: 1.2, Volume: 100},
		{Symbol: "NSE:NIFTY", Time: start.Add(time.Minute), Open: 2, High: 2.5, Low: 1.5, Close: 2.2, Volume: 200},
	}
}

func writeAll(w MarketDataWriter, bars []types.MarketData) (string, error) {
	if err := w.Initialize(); err != nil {
		return "", err
	}

	for _, bar := range bars {
		if err := w.Write(bar); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	outputPath := filepath.Join(suite.tempDir, "test.parquet")
	writer := NewDuckDBWriter(outputPath)

	duckWriter, ok := writer.(*DuckDBWriter)
	suite.True(ok)
	suite.Equal(outputPath, duckWriter.GetOutputPath())
	suite.Nil(duckWriter.db)
	suite.Nil(duckWriter.tx)
	suite.Nil(duckWriter.stmt)
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"))

	err := writer.Write(sampleBars()[0])
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
}

func (suite *DuckDBWriterTestSuite) TestFinalizeWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"))

	_, err := writer.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestFullWorkflow() {
	outputPath := filepath.Join(suite.tempDir, "full.parquet")
	writer := NewDuckDBWriter(outputPath)
	defer writer.Close()

	path, err := writeAll(writer, sampleBars())
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)
	suite.FileExists(path)

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	var first time.Time
	err = db.QueryRow(fmt.Sprintf("SELECT count(*), min(datetime) FROM read_parquet('%s')", path)).Scan(&count, &first)
	suite.Require().NoError(err)
	suite.Equal(3, count)
	suite.True(first.Equal(sampleBars()[1].Time))

	var symbol string
	err = db.QueryRow(fmt.Sprintf("SELECT symbol FROM read_parquet('%s') LIMIT 1", path)).Scan(&symbol)
	suite.Require().NoError(err)
	suite.Equal("NSE:NIFTY", symbol)
}

func (suite *DuckDBWriterTestSuite) TestWriteAfterFinalize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "after.parquet"))
	defer writer.Close()

	_, err := writeAll(writer, sampleBars())
	suite.Require().NoError(err)

	suite.Error(writer.Write(sampleBars()[0]))

	_, err = writer.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestCloseWithActiveTransaction() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "active.parquet"))
	suite.Require().NoError(writer.Initialize())
	suite.Require().NoError(writer.Write(sampleBars()[0]))

	suite.NoError(writer.Close())
	suite.NoError(writer.Close())
	suite.NoFileExists(writer.GetOutputPath())
}

func (suite *DuckDBWriterTestSuite) TestFinalizeExportError() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "missing", "dir", "out.parquet"))
	defer writer.Close()

	_, err := writeAll(writer, sampleBars())
	suite.Error(err)
	suite.Contains(err.Error(), "failed to export to Parquet")
}

type ParquetWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestParquetWriterSuite(t *testing.T) {
	suite.Run(t, new(ParquetWriterTestSuite))
}

func (suite *ParquetWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *ParquetWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewParquetWriter(filepath.Join(suite.tempDir, "x.parquet"))

	suite.Error(writer.Write(sampleBars()[0]))

	_, err := writer.Finalize()
	suite.Error(err)
}

func (suite *ParquetWriterTestSuite) TestFullWorkflowSortsRows() {
	outputPath := filepath.Join(suite.tempDir, "bars.parquet")
	writer := NewParquetWriter(outputPath)
	defer writer.Close()

	path, err := writeAll(writer, sampleBars())
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)

	rows, err := parquet.ReadFile[ParquetRow](path)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)

	for i := 1; i < len(rows); i++ {
		suite.True(rows[i-1].Datetime.Before(rows[i].Datetime))
	}

	suite.Equal("NSE:NIFTY", rows[0].Symbol)
	suite.InDelta(1.2, rows[0].Close, 0.0001)
	suite.InDelta(300.0, rows[2].Volume, 0.0001)
}

type SQLiteWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestSQLiteWriterSuite(t *testing.T) {
	suite.Run(t, new(SQLiteWriterTestSuite))
}

func (suite *SQLiteWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *SQLiteWriterTestSuite) count(path string) int {
	db, err := sql.Open("sqlite", path)
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	suite.Require().NoError(db.QueryRow("SELECT count(*) FROM market_data").Scan(&count))

	return count
}

func (suite *SQLiteWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewSQLiteWriter(filepath.Join(suite.tempDir, "x.db"))

	suite.Error(writer.Write(sampleBars()[0]))

	_, err := writer.Finalize()
	suite.Error(err)
}

func (suite *SQLiteWriterTestSuite) TestFullWorkflow() {
	outputPath := filepath.Join(suite.tempDir, "bars.db")
	writer := NewSQLiteWriter(outputPath)

	path, err := writeAll(writer, sampleBars())
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())
	suite.Equal(outputPath, path)
	suite.Equal(3, suite.count(path))
}

func (suite *SQLiteWriterTestSuite) TestUpsertKeepsOneRowPerDatetime() {
	outputPath := filepath.Join(suite.tempDir, "upsert.db")
	bars := sampleBars()

	first := NewSQLiteWriter(outputPath)
	_, err := writeAll(first, bars)
	suite.Require().NoError(err)
	suite.Require().NoError(first.Close())

	revised := bars[0]
	revised.Close = 99

	second := NewSQLiteWriter(outputPath)
	_, err = writeAll(second, []types.MarketData{revised})
	suite.Require().NoError(err)
	suite.Require().NoError(second.Close())

	suite.Equal(3, suite.count(outputPath))

	db, err := sql.Open("sqlite", outputPath)
	suite.Require().NoError(err)
	defer db.Close()

	var closePrice float64
	err = db.QueryRow("SELECT close FROM market_data WHERE datetime = ?", revised.Time.Format(SQLiteTimeLayout)).Scan(&closePrice)
	suite.Require().NoError(err)
	suite.InDelta(99.0, closePrice, 0.0001)
}

func (suite *SQLiteWriterTestSuite) TestCloseWithoutFinalizeRollsBack() {
	outputPath := filepath.Join(suite.tempDir, "rollback.db")
	writer := NewSQLiteWriter(outputPath)
	suite.Require().NoError(writer.Initialize())
	suite.Require().NoError(writer.Write(sampleBars()[0]))
	suite.Require().NoError(writer.Close())

	suite.Equal(0, suite.count(outputPath))
}
