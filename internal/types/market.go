package types

import "time"

// MarketData is a single OHLCV bar.
// Time is the bar's naive wall-clock open time. It is always stored in the UTC location
// so that bars parsed from files and bars fetched from providers compare equal.
type MarketData struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// After reports whether the bar opens strictly after t.
func (m MarketData) After(t time.Time) bool {
	return m.Time.After(t)
}
