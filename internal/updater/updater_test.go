package updater

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rxtech-lab/intraday-dataset/internal/config"
	"github.com/rxtech-lab/intraday-dataset/internal/inspect"
	"github.com/rxtech-lab/intraday-dataset/internal/logger"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/mocks"
	"github.com/rxtech-lab/intraday-dataset/pkg/dataset"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata"
)

type UpdaterTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	host    *mocks.MockDatasetHost
	fetcher *mocks.MockBarFetcher
	cfg     config.Config
	bars    []types.MarketData
}

func TestUpdaterSuite(t *testing.T) {
	suite.Run(t, new(UpdaterTestSuite))
}

func (suite *UpdaterTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.host = mocks.NewMockDatasetHost(suite.ctrl)
	suite.fetcher = mocks.NewMockBarFetcher(suite.ctrl)

	suite.cfg = config.Default()
	suite.cfg.Dataset.Dir = filepath.Join(suite.T().TempDir(), "upload")
	suite.cfg.Dataset.LockTimeout = time.Second
	suite.cfg.Market.LookbackDays = 2

	suite.bars = mocks.GenerateNiftyDays(3)
}

func (suite *UpdaterTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *UpdaterTestSuite) newUpdater(opts ...Option) *Updater {
	return NewUpdater(suite.host, suite.fetcher, suite.cfg, logger.NewNopLogger(), opts...)
}

// seed writes bars as the published dataset.
func (suite *UpdaterTestSuite) seed(bars []types.MarketData) {
	suite.Require().NoError(os.MkdirAll(suite.cfg.Dataset.Dir, 0o755))
	suite.Require().NoError(dataset.Save(&dataset.Dataset{Path: suite.cfg.DatasetPath(), Exists: true, Bars: bars}))
}

func (suite *UpdaterTestSuite) expectDownload() {
	suite.host.EXPECT().
		DownloadMetadata(gomock.Any(), config.DefaultDatasetID, suite.cfg.Dataset.Dir).
		Return(filepath.Join(suite.cfg.Dataset.Dir, "dataset-metadata.json"), nil)
	suite.host.EXPECT().
		DownloadDataset(gomock.Any(), config.DefaultDatasetID, suite.cfg.Dataset.Dir).
		Return([]string{suite.cfg.DatasetPath()}, nil)
}

func (suite *UpdaterTestSuite) expectFetch(bars []types.MarketData) {
	suite.fetcher.EXPECT().
		FetchBars(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params marketdata.FetchParams) ([]types.MarketData, error) {
			suite.Equal("NIFTY", params.Symbol)
			suite.Equal("NSE", params.Exchange)
			suite.Equal(marketdata.TimespanOneMinute, params.Interval)
			suite.Equal(2*375, params.BarCount)
			suite.Equal("Asia/Kolkata", params.Location.String())
			return bars, nil
		})
}

func (suite *UpdaterTestSuite) TestRunAppendsNewBars() {
	suite.seed(suite.bars[:375])
	suite.expectDownload()
	suite.expectFetch(suite.bars[300:])

	report, err := suite.newUpdater().Run(context.Background())
	suite.Require().NoError(err)
	suite.Equal(dataset.StatusUpdated, report.Result.Status)
	suite.Equal(len(suite.bars)-300, report.Fetched)
	suite.Equal(len(suite.bars)-375, report.Result.Added)
	suite.False(report.Pushed)

	loaded, err := dataset.Load(suite.cfg.DatasetPath())
	suite.Require().NoError(err)
	suite.Equal(suite.bars, loaded.Bars)
}

func (suite *UpdaterTestSuite) TestRunNoFetchedData() {
	suite.seed(suite.bars[:10])
	suite.expectDownload()
	suite.expectFetch(nil)

	core, logs := observer.New(zapcore.WarnLevel)
	u := NewUpdater(suite.host, suite.fetcher, suite.cfg, &logger.Logger{Logger: zap.New(core)})

	report, err := u.Run(context.Background())
	suite.NoError(err)
	suite.Equal(dataset.StatusNoFetchedData, report.Result.Status)

	warnings := logs.FilterMessage("No data fetched from provider, dataset left unchanged").All()
	suite.Require().Len(warnings, 1)
	fields := warnings[0].ContextMap()
	suite.Equal(config.DefaultProvider, fields["provider"])
	suite.Equal(config.DefaultSymbol, fields["symbol"])
	suite.Equal(config.DefaultExchange, fields["exchange"])
}

func (suite *UpdaterTestSuite) TestRunFailsWhenArchiveLacksDatasetFile() {
	suite.cfg.Upload.Enabled = true
	other := filepath.Join(suite.cfg.Dataset.Dir, "README.md")

	suite.host.EXPECT().
		DownloadMetadata(gomock.Any(), config.DefaultDatasetID, suite.cfg.Dataset.Dir).
		Return(filepath.Join(suite.cfg.Dataset.Dir, "dataset-metadata.json"), nil)
	suite.host.EXPECT().
		DownloadDataset(gomock.Any(), config.DefaultDatasetID, suite.cfg.Dataset.Dir).
		Return([]string{other}, nil)

	report, err := suite.newUpdater().Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeDatasetNotFound))
	suite.Equal([]string{other}, report.Downloaded)
	suite.Nil(report.Result)
	suite.False(report.Pushed)
	suite.NoFileExists(suite.cfg.DatasetPath())
}

func (suite *UpdaterTestSuite) TestRunNoNewDataDoesNotPush() {
	suite.cfg.Upload.Enabled = true
	suite.seed(suite.bars)
	suite.expectDownload()
	suite.expectFetch(suite.bars[100:200])

	report, err := suite.newUpdater().Run(context.Background())
	suite.NoError(err)
	suite.Equal(dataset.StatusNoNewData, report.Result.Status)
	suite.False(report.Pushed)
}

func (suite *UpdaterTestSuite) TestRunSkipDownloadStartsFresh() {
	suite.cfg.Host.SkipDownload = true
	suite.expectFetch(suite.bars[:5])

	report, err := suite.newUpdater().Run(context.Background())
	suite.Require().NoError(err)
	suite.Equal(dataset.StatusUpdated, report.Result.Status)
	suite.Empty(report.MetadataPath)
	suite.True(report.Result.Previous.IsNone())
	suite.Equal(5, report.Result.Added)
	suite.FileExists(suite.cfg.DatasetPath())
}

func (suite *UpdaterTestSuite) TestRunExportsSummarizesAndPushes() {
	dir := suite.cfg.Dataset.Dir
	suite.cfg.Upload.Enabled = true
	suite.cfg.Exports = []config.ExportConfig{
		{Format: "parquet", Path: filepath.Join(dir, "exports", "nifty.parquet")},
		{Format: "sqlite", Path: filepath.Join(dir, "exports", "nifty.db")},
	}

	summarizer := mocks.NewMockSummarizer(suite.ctrl)
	last := suite.bars[len(suite.bars)-1].Time

	suite.expectDownload()
	suite.expectFetch(suite.bars)
	summarizer.EXPECT().
		Summarize(gomock.Any(), suite.cfg.DatasetPath()).
		Return(inspect.Summary{Rows: int64(len(suite.bars)), Days: 3, Last: optional.Some(last)}, nil)
	suite.host.EXPECT().
		CreateVersion(gomock.Any(), config.DefaultDatasetID, []string{suite.cfg.DatasetPath()}, config.DefaultUploadNotes).
		Return(nil)

	report, err := suite.newUpdater(WithSummarizer(summarizer)).Run(context.Background())
	suite.Require().NoError(err)
	suite.True(report.Pushed)
	suite.Len(report.Exports, 2)
	for _, path := range report.Exports {
		suite.FileExists(path)
	}
	suite.Require().True(report.Summary.IsSome())
	suite.Equal(int64(3), report.Summary.Unwrap().Days)
}

func (suite *UpdaterTestSuite) TestRunSummaryFailureIsNotFatal() {
	suite.cfg.Host.SkipDownload = true
	summarizer := mocks.NewMockSummarizer(suite.ctrl)

	suite.expectFetch(suite.bars[:3])
	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return(inspect.Summary{}, errors.New(errors.ErrCodeDatasetQueryFailed, "boom"))

	report, err := suite.newUpdater(WithSummarizer(summarizer)).Run(context.Background())
	suite.NoError(err)
	suite.True(report.Summary.IsNone())
}

func (suite *UpdaterTestSuite) TestRunDownloadErrorStops() {
	suite.host.EXPECT().
		DownloadMetadata(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New(errors.ErrCodeHostAuthMissing, "no credentials"))

	_, err := suite.newUpdater().Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeHostAuthMissing))
}

func (suite *UpdaterTestSuite) TestRunFetchErrorLeavesDatasetUntouched() {
	suite.seed(suite.bars[:10])
	before, err := os.ReadFile(suite.cfg.DatasetPath())
	suite.Require().NoError(err)

	suite.expectDownload()
	suite.fetcher.EXPECT().
		FetchBars(gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.ErrCodeMarketDataFetchFailed, "provider down"))

	_, err = suite.newUpdater().Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))

	after, err := os.ReadFile(suite.cfg.DatasetPath())
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *UpdaterTestSuite) TestRunSchemaMismatch() {
	suite.cfg.Host.SkipDownload = true
	suite.Require().NoError(os.MkdirAll(suite.cfg.Dataset.Dir, 0o755))
	suite.Require().NoError(os.WriteFile(suite.cfg.DatasetPath(), []byte("date,price\n2024-01-01,1\n"), 0o644))
	suite.expectFetch(suite.bars[:3])

	_, err := suite.newUpdater().Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))
}

func (suite *UpdaterTestSuite) TestRunPushFailure() {
	suite.cfg.Host.SkipDownload = true
	suite.cfg.Upload.Enabled = true
	suite.expectFetch(suite.bars[:3])
	suite.host.EXPECT().
		CreateVersion(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New(errors.ErrCodeHostUploadFailed, "quota"))

	report, err := suite.newUpdater().Run(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeHostUploadFailed))
	suite.False(report.Pushed)
	suite.FileExists(suite.cfg.DatasetPath())
}
