// Package dataset maintains a CSV time series of bars keyed by timestamp.
//
// A dataset file has one row per bar and the header
// datetime,symbol,open,high,low,close,volume. After Merge or Update the rows are
// strictly increasing by datetime with no duplicate timestamps.
package dataset

import (
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
)

// Columns is the header of a dataset file, in write order.
var Columns = []string{"datetime", "symbol", "open", "high", "low", "close", "volume"}

// Dataset is the in-memory form of a dataset file.
type Dataset struct {
	// Path is the file the dataset was loaded from or will be written to.
	Path string
	// Exists reports whether Path existed when the dataset was loaded.
	Exists bool
	// Bars holds the rows in file order.
	Bars []types.MarketData
}

// Len returns the number of bars.
func (d *Dataset) Len() int {
	return len(d.Bars)
}

// LastTimestamp returns the latest bar time, or None for an empty dataset.
// Rows are not assumed to be sorted.
func (d *Dataset) LastTimestamp() optional.Option[time.Time] {
	if len(d.Bars) == 0 {
		return optional.None[time.Time]()
	}

	last := d.Bars[0].Time
	for _, bar := range d.Bars[1:] {
		if bar.Time.After(last) {
			last = bar.Time
		}
	}

	return optional.Some(last)
}

// FirstTimestamp returns the earliest bar time, or None for an empty dataset.
func (d *Dataset) FirstTimestamp() optional.Option[time.Time] {
	if len(d.Bars) == 0 {
		return optional.None[time.Time]()
	}

	first := d.Bars[0].Time
	for _, bar := range d.Bars[1:] {
		if bar.Time.Before(first) {
			first = bar.Time
		}
	}

	return optional.Some(first)
}

// Filter returns the bars strictly after last. When last is None every bar is kept.
func Filter(bars []types.MarketData, last optional.Option[time.Time]) []types.MarketData {
	if last.IsNone() {
		return slices.Clone(bars)
	}

	cutoff := last.Unwrap()
	fresh := make([]types.MarketData, 0, len(bars))

	for _, bar := range bars {
		if bar.After(cutoff) {
			fresh = append(fresh, bar)
		}
	}

	return fresh
}

// Merge concatenates existing and incoming, drops rows whose timestamp was already seen
// and sorts the result ascending by time.
//
// The first occurrence of a timestamp wins: existing rows take precedence over incoming
// rows, and earlier rows within either slice over later ones. Duplicates are removed
// before sorting, so the choice does not depend on sort stability.
func Merge(existing, incoming []types.MarketData) []types.MarketData {
	merged := make([]types.MarketData, 0, len(existing)+len(incoming))
	seen := make(map[int64]struct{}, len(existing)+len(incoming))

	for _, batch := range [][]types.MarketData{existing, incoming} {
		for _, bar := range batch {
			key := bar.Time.UnixNano()
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			merged = append(merged, bar)
		}
	}

	slices.SortStableFunc(merged, func(a, b types.MarketData) int {
		return a.Time.Compare(b.Time)
	})

	return merged
}
