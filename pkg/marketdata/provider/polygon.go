package provider

import (
	"context"
	"slices"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// polygonPageLimit is the largest page the aggregates endpoint serves.
const polygonPageLimit = 50000

// PolygonAggsIterator is the part of the polygon aggregates iterator used here.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the part of the polygon REST client used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	now       func() time.Time
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIAdapter{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a PolygonClient on top of the given API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// GetHistoricalBars lists aggregates newest first over a window ending now and keeps the
// first req.BarCount of them.
func (c *PolygonClient) GetHistoricalBars(ctx context.Context, req BarsRequest) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	barDuration, err := BarDuration(req.Multiplier, req.Timespan)
	if err != nil {
		return nil, err
	}

	to := c.now().UTC()
	from := to.Add(-lookbackWindow(req.BarCount, barDuration))

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Symbol,
		Multiplier: req.Multiplier,
		Timespan:   req.Timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Desc).WithLimit(min(req.BarCount, polygonPageLimit))

	iter := c.apiClient.ListAggs(ctx, params)
	bars := make([]types.MarketData, 0, req.BarCount)

	for len(bars) < req.BarCount && iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.MarketData{
			Symbol: req.Symbol,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", describe(req))
	}

	slices.SortFunc(bars, func(a, b types.MarketData) int {
		return a.Time.Compare(b.Time)
	})

	return bars, nil
}
