package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingSMA_ShortSeriesAveragesEverything(t *testing.T) {
	values := []float64{2, 4, 6}
	sma := TrailingSMA(values, 5)

	assert.Equal(t, []float64{2, 3, 4}, sma)
	assert.Equal(t, mean(values), SimpleMovingAverage(values, 5))
	assert.Equal(t, mean(values), SimpleMovingAverage(values, len(values)))
}

func TestTrailingSMA_SlidesOverPeriod(t *testing.T) {
	assert.InDeltaSlice(t, []float64{1, 1.5, 2.5, 3.5}, TrailingSMA([]float64{1, 2, 3, 4}, 2), 1e-9)
	assert.Equal(t, 0.0, SimpleMovingAverage(nil, 3))
}

func TestVolatility(t *testing.T) {
	assert.InDelta(t, 10.0, Volatility([]float64{100, 110, 99}), 1e-9)
	assert.Zero(t, Volatility([]float64{100}))
	assert.Zero(t, Volatility([]float64{50, 50, 50}))
}

func sampleCandles() []Candle {
	return []Candle{
		{Symbol: "ZED", Date: "2024-01-15", Open: 9, High: 11, Low: 8, Close: 10, Volume: 100},
		{Symbol: "ZED", Date: "2024-03-01", Open: 10, High: 12, Low: 9, Close: 11, Volume: 200},
		{Symbol: "ZED", Date: "2024-04-01", Open: 12, High: 15, Low: 11, Close: 14, Volume: 300},
		{Symbol: "ZED", Date: "2024-03-20", Open: 11, High: 13, Low: 10, Close: 12, Volume: 400},
		{Symbol: "ABC", Date: "2024-03-30", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
	}
}

func TestCandlestick_WindowIsInclusive(t *testing.T) {
	res, err := Candlestick(CandlestickInput{Records: sampleCandles(), Range: "1m", MovingAveragePeriod: 2})
	require.NoError(t, err)

	assert.Equal(t, Range1M, res.Range)
	assert.Equal(t, "2024-03-01", res.From)
	assert.Equal(t, "2024-04-01", res.To)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "ABC", res.Series[0].Symbol)

	zed := res.Series[1]
	require.Len(t, zed.Candles, 3)
	assert.Equal(t, []string{"2024-03-01", "2024-03-20", "2024-04-01"},
		[]string{zed.Candles[0].Date, zed.Candles[1].Date, zed.Candles[2].Date})
	assert.Equal(t, 15.0, zed.High)
	assert.Equal(t, 9.0, zed.Low)
	assert.Equal(t, 11.0, zed.FirstClose)
	assert.Equal(t, 14.0, zed.LastClose)
	assert.Equal(t, 27.27, zed.ChangePercent)
	assert.Equal(t, 13.0, zed.MovingAverage)
	assert.Equal(t, 11.0, zed.Candles[0].MovingAverage)
	assert.Equal(t, 300.0, zed.AverageVolume)
}

func TestCandlestick_AllRangeAndDefaults(t *testing.T) {
	res, err := Candlestick(CandlestickInput{Records: sampleCandles()})
	require.NoError(t, err)

	assert.Equal(t, RangeAll, res.Range)
	assert.Empty(t, res.From)
	assert.Equal(t, DefaultMovingAveragePeriod, res.MovingAveragePeriod)
	require.Len(t, res.Series, 2)
	assert.Len(t, res.Series[1].Candles, 4)
	// fewer points than the period: mean of all closes
	assert.Equal(t, 11.75, res.Series[1].MovingAverage)
}

func TestCandlestick_AsOfMovesWindow(t *testing.T) {
	res, err := Candlestick(CandlestickInput{Records: sampleCandles(), Range: Range3M, AsOf: "2024-03-10"})
	require.NoError(t, err)

	require.Len(t, res.Series, 1)
	assert.Equal(t, "ZED", res.Series[0].Symbol)
	assert.Len(t, res.Series[0].Candles, 2)
}

func TestCandlestick_InvalidInput(t *testing.T) {
	cases := map[string]CandlestickInput{
		"range":  {Records: sampleCandles(), Range: "2W"},
		"period": {Records: sampleCandles(), MovingAveragePeriod: -1},
		"date":   {Records: []Candle{{Symbol: "X", Date: "yesterday", Close: 1}}},
		"asOf":   {Records: sampleCandles(), AsOf: "soon"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Candlestick(in)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestCandlestick_DefaultDataset(t *testing.T) {
	res, err := Candlestick(CandlestickInput{Range: Range3M})
	require.NoError(t, err)

	assert.True(t, res.UsedDefaultData)
	require.Len(t, res.Series, 2)
	for _, s := range res.Series {
		require.NotEmpty(t, s.Candles)
		assert.GreaterOrEqual(t, s.Candles[0].Date, res.From)
		assert.Greater(t, s.Volatility, 0.0)
		assert.GreaterOrEqual(t, s.High, s.Low)
		for _, c := range s.Candles {
			assert.LessOrEqual(t, c.Low, c.High)
		}
	}
}
