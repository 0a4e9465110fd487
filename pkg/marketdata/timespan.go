package marketdata

import (
	"cmp"
	"slices"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata/provider"
)

// Timespan is a bar interval in the notation used by charting platforms, e.g. "1m" or "4h".
type Timespan string

const (
	TimespanOneSecond      Timespan = "1s"
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanOneDay         Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

type timespanUnit struct {
	multiplier int
	timespan   models.Timespan
}

var timespanUnits = map[Timespan]timespanUnit{
	TimespanOneSecond:      {1, models.Second},
	TimespanOneMinute:      {1, models.Minute},
	TimespanThreeMinutes:   {3, models.Minute},
	TimespanFiveMinutes:    {5, models.Minute},
	TimespanFifteenMinutes: {15, models.Minute},
	TimespanThirtyMinutes:  {30, models.Minute},
	TimespanOneHour:        {1, models.Hour},
	TimespanTwoHours:       {2, models.Hour},
	TimespanFourHours:      {4, models.Hour},
	TimespanSixHours:       {6, models.Hour},
	TimespanEightHours:     {8, models.Hour},
	TimespanTwelveHours:    {12, models.Hour},
	TimespanOneDay:         {1, models.Day},
	TimespanThreeDays:      {3, models.Day},
	TimespanOneWeek:        {1, models.Week},
	TimespanOneMonth:       {1, models.Month},
}

// SupportedTimespans returns every known interval, shortest first.
func SupportedTimespans() []Timespan {
	spans := make([]Timespan, 0, len(timespanUnits))
	for t := range timespanUnits {
		spans = append(spans, t)
	}

	slices.SortFunc(spans, func(a, b Timespan) int {
		return cmp.Compare(a.Duration(), b.Duration())
	})

	return spans
}

// ParseTimespan returns the Timespan for s or an ErrCodeInvalidTimespan error.
func ParseTimespan(s string) (Timespan, error) {
	t := Timespan(s)
	if !t.Valid() {
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %q", s)
	}

	return t, nil
}

// Valid reports whether t is a known interval.
func (t Timespan) Valid() bool {
	_, ok := timespanUnits[t]

	return ok
}

// Multiplier returns how many base units make up one bar. Unknown intervals return 1.
func (t Timespan) Multiplier() int {
	if unit, ok := timespanUnits[t]; ok {
		return unit.multiplier
	}

	return 1
}

// Timespan returns the base unit of the interval. Unknown intervals return a day.
func (t Timespan) Timespan() models.Timespan {
	if unit, ok := timespanUnits[t]; ok {
		return unit.timespan
	}

	return models.Day
}

// Duration returns the length of one bar, or 0 for unknown intervals.
func (t Timespan) Duration() time.Duration {
	unit, ok := timespanUnits[t]
	if !ok {
		return 0
	}

	d, err := provider.BarDuration(unit.multiplier, unit.timespan)
	if err != nil {
		return 0
	}

	return d
}
