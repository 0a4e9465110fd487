package dataset

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/intraday-dataset/internal/types"
	"github.com/stretchr/testify/suite"
)

type DatasetTestSuite struct {
	suite.Suite
}

func TestDatasetSuite(t *testing.T) {
	suite.Run(t, new(DatasetTestSuite))
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC)
}

func bar(t time.Time, closePrice float64) types.MarketData {
	return types.MarketData{
		Symbol: "NSE:NIFTY",
		Time:   t,
		Open:   closePrice,
		High:   closePrice,
		Low:    closePrice,
		Close:  closePrice,
		Volume: 0,
	}
}

func times(bars []types.MarketData) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}

	return out
}

func (suite *DatasetTestSuite) TestLastTimestampEmpty() {
	d := &Dataset{}
	suite.True(d.LastTimestamp().IsNone())
	suite.True(d.FirstTimestamp().IsNone())
	suite.Equal(0, d.Len())
}

func (suite *DatasetTestSuite) TestLastTimestampUnsorted() {
	d := &Dataset{Bars: []types.MarketData{
		bar(at(9, 16), 1),
		bar(at(9, 18), 2),
		bar(at(9, 15), 3),
	}}

	suite.Equal(at(9, 18), d.LastTimestamp().Unwrap())
	suite.Equal(at(9, 15), d.FirstTimestamp().Unwrap())
}

func (suite *DatasetTestSuite) TestFilterWithoutLast() {
	bars := []types.MarketData{bar(at(9, 15), 1), bar(at(9, 16), 2)}

	fresh := Filter(bars, optional.None[time.Time]())
	suite.Equal(bars, fresh)
}

func (suite *DatasetTestSuite) TestFilterStrictlyAfter() {
	bars := []types.MarketData{
		bar(at(9, 15), 1),
		bar(at(9, 16), 2),
		bar(at(9, 17), 3),
	}

	fresh := Filter(bars, optional.Some(at(9, 16)))
	suite.Equal([]time.Time{at(9, 17)}, times(fresh))
}

func (suite *DatasetTestSuite) TestMergeExample() {
	// D = [09:15, 09:16], B = [09:16, 09:17, 09:17]
	existing := []types.MarketData{bar(at(9, 15), 1), bar(at(9, 16), 2)}
	incoming := []types.MarketData{bar(at(9, 16), 20), bar(at(9, 17), 3), bar(at(9, 17), 30)}

	merged := Merge(existing, incoming)

	suite.Equal([]time.Time{at(9, 15), at(9, 16), at(9, 17)}, times(merged))
	// first occurrence wins
	suite.Equal(2.0, merged[1].Close)
	suite.Equal(3.0, merged[2].Close)
}

func (suite *DatasetTestSuite) TestMergeSortsUnorderedInput() {
	existing := []types.MarketData{bar(at(9, 18), 1), bar(at(9, 15), 2)}
	incoming := []types.MarketData{bar(at(9, 17), 3), bar(at(9, 16), 4)}

	merged := Merge(existing, incoming)
	suite.Equal([]time.Time{at(9, 15), at(9, 16), at(9, 17), at(9, 18)}, times(merged))
}

func (suite *DatasetTestSuite) TestMergeCollapsesDuplicatesInExisting() {
	existing := []types.MarketData{bar(at(9, 15), 1), bar(at(9, 15), 2)}

	merged := Merge(existing, nil)
	suite.Len(merged, 1)
	suite.Equal(1.0, merged[0].Close)
}

func (suite *DatasetTestSuite) TestMergeEmpty() {
	suite.Empty(Merge(nil, nil))
}

func (suite *DatasetTestSuite) TestMergeIsStrictlyIncreasing() {
	existing := []types.MarketData{bar(at(9, 20), 1), bar(at(9, 15), 1), bar(at(9, 20), 1)}
	incoming := []types.MarketData{bar(at(9, 15), 1), bar(at(9, 16), 1), bar(at(9, 30), 1), bar(at(9, 16), 1)}

	merged := Merge(existing, incoming)
	for i := 1; i < len(merged); i++ {
		suite.True(merged[i].Time.After(merged[i-1].Time), "index %d", i)
	}

	suite.Len(merged, 4)
}
