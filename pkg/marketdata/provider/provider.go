package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

const (
	// lookbackFactor widens a fetch window from pure bar time to calendar time so that
	// closed sessions, weekends and holidays are covered.
	lookbackFactor = 7
	maxLookback    = 20 * 365 * 24 * time.Hour
)

// BarsRequest asks for the most recent BarCount bars of a symbol.
type BarsRequest struct {
	// Symbol is the provider's ticker, e.g. "SPY" or "BTCUSDT".
	Symbol string `validate:"required"`
	// Exchange is the listing venue. Providers that serve a single venue ignore it.
	Exchange   string
	Multiplier int             `validate:"min=1"`
	Timespan   models.Timespan `validate:"required"`
	BarCount   int             `validate:"min=1"`
}

// Validate checks the request fields.
func (r BarsRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid bars request", err)
	}

	return nil
}

type Provider interface {
	// GetHistoricalBars returns up to req.BarCount of the most recent bars in ascending time
	// order. An empty slice means the provider had no data for the request.
	// The context can be used to cancel the request.
	// example:
	// GetHistoricalBars(ctx, BarsRequest{Symbol: "SPY", Multiplier: 1, Timespan: models.Minute, BarCount: 7500})
	GetHistoricalBars(ctx context.Context, req BarsRequest) ([]types.MarketData, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// BarDuration returns the length of one bar.
func BarDuration(multiplier int, timespan models.Timespan) (time.Duration, error) {
	var unit time.Duration

	switch timespan {
	case models.Second:
		unit = time.Second
	case models.Minute:
		unit = time.Minute
	case models.Hour:
		unit = time.Hour
	case models.Day:
		unit = 24 * time.Hour
	case models.Week:
		unit = 7 * 24 * time.Hour
	case models.Month:
		unit = 30 * 24 * time.Hour
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan: %s", timespan)
	}

	return time.Duration(multiplier) * unit, nil
}

// lookbackWindow returns how far back a fetch for barCount bars of barDuration reaches.
func lookbackWindow(barCount int, barDuration time.Duration) time.Duration {
	if barDuration <= 0 || barCount <= 0 {
		return 0
	}

	if time.Duration(barCount) > maxLookback/(barDuration*lookbackFactor) {
		return maxLookback
	}

	return time.Duration(barCount) * barDuration * lookbackFactor
}

func describe(req BarsRequest) string {
	return fmt.Sprintf("%s %d%s x%d", req.Symbol, req.Multiplier, req.Timespan, req.BarCount)
}
