package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestMarketDataStruct() {
	ts := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	data := MarketData{
		Symbol: "NSE:NIFTY",
		Time:   ts,
		Open:   22000.5,
		High:   22010.0,
		Low:    21995.25,
		Close:  22005.0,
		Volume: 0,
	}

	suite.Equal("NSE:NIFTY", data.Symbol)
	suite.Equal(ts, data.Time)
	suite.Equal(22000.5, data.Open)
	suite.Equal(22010.0, data.High)
	suite.Equal(21995.25, data.Low)
	suite.Equal(22005.0, data.Close)
	suite.Equal(0.0, data.Volume)
}

func (suite *MarketTestSuite) TestMarketDataZeroValues() {
	data := MarketData{}

	suite.Empty(data.Symbol)
	suite.True(data.Time.IsZero())
	suite.Equal(0.0, data.Open)
	suite.Equal(0.0, data.Volume)
}

func (suite *MarketTestSuite) TestAfter() {
	base := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	bar := MarketData{Time: base.Add(time.Minute)}

	suite.True(bar.After(base))
	suite.False(bar.After(base.Add(time.Minute)), "equal timestamps are not after")
	suite.False(bar.After(base.Add(2 * time.Minute)))
}
