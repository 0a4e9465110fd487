package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata/provider"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon binance"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// FetchParams describes one "latest N bars" request.
type FetchParams struct {
	Symbol   string   `validate:"required"`
	Exchange string   `validate:"required"`
	Interval Timespan `validate:"required"`
	BarCount int      `validate:"required,min=1"`
	// Location is the exchange time zone. Bar times are returned as wall clock times in it.
	// Nil keeps UTC.
	Location *time.Location
}

// Client fetches bars from a provider and normalizes them for the dataset.
type Client struct {
	provider provider.Provider
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, logger *zap.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.PolygonApiKey)
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(marketProvider, logger), nil
}

// NewClientWithProvider creates a client on top of an existing provider.
func NewClientWithProvider(marketProvider provider.Provider, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		provider: marketProvider,
		validate: validator.New(),
		logger:   logger,
	}
}

// FetchBars returns the latest params.BarCount bars in ascending order, labelled
// EXCHANGE:SYMBOL with naive exchange-local times. An empty result is not an error.
func (c *Client) FetchBars(ctx context.Context, params FetchParams) ([]types.MarketData, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	if !params.Interval.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %q", params.Interval)
	}

	c.logger.Debug("Fetching bars",
		zap.String("symbol", params.Symbol),
		zap.String("exchange", params.Exchange),
		zap.String("interval", string(params.Interval)),
		zap.Int("bars", params.BarCount),
	)

	bars, err := c.provider.GetHistoricalBars(ctx, provider.BarsRequest{
		Symbol:     params.Symbol,
		Exchange:   params.Exchange,
		Multiplier: params.Interval.Multiplier(),
		Timespan:   params.Interval.Timespan(),
		BarCount:   params.BarCount,
	})
	if err != nil {
		if errors.GetCode(err) != errors.ErrCodeUnknown {
			return nil, err
		}

		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch bars", err)
	}

	label := Label(params.Exchange, params.Symbol)
	out := make([]types.MarketData, 0, len(bars))

	for _, bar := range bars {
		bar.Symbol = label
		bar.Time = WallClock(bar.Time, params.Location)
		out = append(out, bar)
	}

	c.logger.Debug("Fetched bars", zap.String("symbol", label), zap.Int("count", len(out)))

	return out, nil
}

// Label returns the EXCHANGE:SYMBOL name of an instrument.
func Label(exchange, symbol string) string {
	if exchange == "" {
		return symbol
	}

	return exchange + ":" + symbol
}

// WallClock converts t to its wall clock reading in loc and returns that reading in UTC,
// so the value compares and formats like a time without zone.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
