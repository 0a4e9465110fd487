package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator PolygonAggsIterator
	params   *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.params = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

// descendingAggs returns n one-minute aggregates, newest first, ending at end.
func descendingAggs(end time.Time, n int) []models.Agg {
	aggs := make([]models.Agg, 0, n)
	for i := 0; i < n; i++ {
		ts := end.Add(-time.Duration(i) * time.Minute)
		aggs = append(aggs, models.Agg{
			Timestamp: models.Millis(ts),
			Open:      100 + float64(i),
			High:      101 + float64(i),
			Low:       99 + float64(i),
			Close:     100.5 + float64(i),
			Volume:    1000,
		})
	}
	return aggs
}

type PolygonClientTestSuite struct {
	suite.Suite
	now time.Time
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) SetupTest() {
	suite.now = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
}

func (suite *PolygonClientTestSuite) newClient(iter PolygonAggsIterator) (*PolygonClient, *mockPolygonAPIClient) {
	mockAPI := &mockPolygonAPIClient{iterator: iter}
	client := NewPolygonClientWithAPI(mockAPI)
	client.now = func() time.Time { return suite.now }

	return client, mockAPI
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_ValidApiKey() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)
	suite.NotNil(client)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *PolygonClientTestSuite) TestGetHistoricalBars_AscendingAndTruncated() {
	end := time.Date(2024, 1, 5, 9, 59, 0, 0, time.UTC)
	client, mockAPI := suite.newClient(&mockPolygonIterator{aggs: descendingAggs(end, 10)})

	bars, err := client.GetHistoricalBars(context.Background(), BarsRequest{
		Symbol:     "SPY",
		Multiplier: 1,
		Timespan:   models.Minute,
		BarCount:   4,
	})
	suite.Require().NoError(err)
	suite.Require().Len(bars, 4)

	// the four newest bars, oldest first
	suite.Equal(end.Add(-3*time.Minute), bars[0].Time)
	suite.Equal(end, bars[3].Time)
	suite.Equal("SPY", bars[0].Symbol)
	suite.InDelta(103.0, bars[0].Open, 0.001)
	suite.InDelta(100.5, bars[3].Close, 0.001)

	suite.Require().NotNil(mockAPI.params)
	suite.Equal("SPY", mockAPI.params.Ticker)
	suite.Equal(models.Minute, mockAPI.params.Timespan)
	suite.Equal(suite.now, time.Time(mockAPI.params.To))
	suite.Equal(suite.now.Add(-4*time.Minute*lookbackFactor), time.Time(mockAPI.params.From))
}

func (suite *PolygonClientTestSuite) TestGetHistoricalBars_Empty() {
	client, _ := suite.newClient(&mockPolygonIterator{})

	bars, err := client.GetHistoricalBars(context.Background(), BarsRequest{
		Symbol:     "SPY",
		Multiplier: 1,
		Timespan:   models.Minute,
		BarCount:   10,
	})
	suite.NoError(err)
	suite.Empty(bars)
}

func (suite *PolygonClientTestSuite) TestGetHistoricalBars_IteratorError() {
	client, _ := suite.newClient(&mockPolygonIterator{err: errors.New("rate limited")})

	bars, err := client.GetHistoricalBars(context.Background(), BarsRequest{
		Symbol:     "SPY",
		Multiplier: 1,
		Timespan:   models.Minute,
		BarCount:   10,
	})
	suite.Error(err)
	suite.Nil(bars)
	suite.Contains(err.Error(), "rate limited")
}

func (suite *PolygonClientTestSuite) TestGetHistoricalBars_InvalidRequest() {
	client, _ := suite.newClient(&mockPolygonIterator{})

	tests := []struct {
		name string
		req  BarsRequest
	}{
		{name: "missing symbol", req: BarsRequest{Multiplier: 1, Timespan: models.Minute, BarCount: 1}},
		{name: "zero multiplier", req: BarsRequest{Symbol: "SPY", Timespan: models.Minute, BarCount: 1}},
		{name: "zero bar count", req: BarsRequest{Symbol: "SPY", Multiplier: 1, Timespan: models.Minute}},
		{name: "unsupported timespan", req: BarsRequest{Symbol: "SPY", Multiplier: 1, Timespan: "fortnight", BarCount: 1}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bars, err := client.GetHistoricalBars(context.Background(), tc.req)
			suite.Error(err)
			suite.Nil(bars)
		})
	}
}

func (suite *PolygonClientTestSuite) TestLookbackWindow() {
	suite.Equal(time.Duration(0), lookbackWindow(0, time.Minute))
	suite.Equal(7*time.Minute, lookbackWindow(1, time.Minute))
	suite.Equal(7500*7*time.Minute, lookbackWindow(7500, time.Minute))
	suite.Equal(maxLookback, lookbackWindow(1_000_000, 24*time.Hour))
}
