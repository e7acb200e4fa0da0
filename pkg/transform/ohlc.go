package transform

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	Range1M  = "1M"
	Range3M  = "3M"
	Range6M  = "6M"
	Range1Y  = "1Y"
	RangeAll = "ALL"

	DefaultMovingAveragePeriod = 20

	dateLayout = "2006-01-02"
)

// rangeMonths maps each range token to its window length; 0 means unbounded.
var rangeMonths = map[string]int{
	Range1M:  1,
	Range3M:  3,
	Range6M:  6,
	Range1Y:  12,
	RangeAll: 0,
}

type Candle struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type CandlestickInput struct {
	Records             []Candle `json:"records"`
	Range               string   `json:"range,omitempty"`
	MovingAveragePeriod int      `json:"movingAveragePeriod,omitempty"`
	// AsOf anchors the window end; empty means the latest record date.
	AsOf string `json:"asOf,omitempty"`
}

type CandlePoint struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        float64 `json:"volume"`
	MovingAverage float64 `json:"movingAverage"`
}

type SymbolSeries struct {
	Symbol        string        `json:"symbol"`
	Candles       []CandlePoint `json:"candles"`
	Volatility    float64       `json:"volatility"`
	High          float64       `json:"high"`
	Low           float64       `json:"low"`
	FirstClose    float64       `json:"firstClose"`
	LastClose     float64       `json:"lastClose"`
	ChangePercent float64       `json:"changePercent"`
	MovingAverage float64       `json:"movingAverage"`
	AverageVolume float64       `json:"averageVolume"`
}

type CandlestickResult struct {
	Range               string         `json:"range"`
	From                string         `json:"from,omitempty"`
	To                  string         `json:"to"`
	MovingAveragePeriod int            `json:"movingAveragePeriod"`
	Series              []SymbolSeries `json:"series"`
	UsedDefaultData     bool           `json:"usedDefaultData"`
}

type datedCandle struct {
	Candle
	at time.Time
}

type candlestickParams struct {
	records  []datedCandle
	rangeTok string
	months   int
	period   int
	asOf     time.Time
}

func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, domainErr(field, "unparseable date %q", s)
}

func normalizeCandlestick(in CandlestickInput) (candlestickParams, bool, error) {
	usedDefault := len(in.Records) == 0
	src := in.Records
	if usedDefault {
		src = DefaultCandles()
	}

	tok := strings.ToUpper(strings.TrimSpace(in.Range))
	if tok == "" {
		tok = RangeAll
	}
	months, ok := rangeMonths[tok]
	if !ok {
		return candlestickParams{}, usedDefault, domainErr("range", "unknown range %q", in.Range)
	}

	period := in.MovingAveragePeriod
	switch {
	case period < 0:
		return candlestickParams{}, usedDefault, domainErr("movingAveragePeriod", "must not be negative, got %d", period)
	case period == 0:
		period = DefaultMovingAveragePeriod
	}

	records := make([]datedCandle, 0, len(src))
	var latest time.Time
	for _, c := range src {
		at, err := parseDate("date", c.Date)
		if err != nil {
			return candlestickParams{}, usedDefault, err
		}
		c.Symbol = strings.TrimSpace(c.Symbol)
		if c.Symbol == "" {
			c.Symbol = "UNKNOWN"
		}
		c.Date = at.Format(dateLayout)
		records = append(records, datedCandle{Candle: c, at: at})
		if at.After(latest) {
			latest = at
		}
	}

	asOf := latest
	if in.AsOf != "" {
		t, err := parseDate("asOf", in.AsOf)
		if err != nil {
			return candlestickParams{}, usedDefault, err
		}
		asOf = t
	}

	return candlestickParams{records: records, rangeTok: tok, months: months, period: period, asOf: asOf}, usedDefault, nil
}

// Candlestick filters records to the requested window and computes
// per-symbol volatility, extrema and a trailing moving average.
func Candlestick(in CandlestickInput) (CandlestickResult, error) {
	p, usedDefault, err := normalizeCandlestick(in)
	if err != nil {
		return CandlestickResult{}, err
	}

	res := CandlestickResult{
		Range:               p.rangeTok,
		To:                  p.asOf.Format(dateLayout),
		MovingAveragePeriod: p.period,
		Series:              make([]SymbolSeries, 0),
		UsedDefaultData:     usedDefault,
	}

	var from time.Time
	if p.months > 0 {
		from = p.asOf.AddDate(0, -p.months, 0)
		res.From = from.Format(dateLayout)
	}

	bySymbol := make(map[string][]datedCandle)
	for _, c := range p.records {
		if c.at.After(p.asOf) || (p.months > 0 && c.at.Before(from)) {
			continue
		}
		bySymbol[c.Symbol] = append(bySymbol[c.Symbol], c)
	}

	for symbol, candles := range bySymbol {
		slices.SortStableFunc(candles, func(a, b datedCandle) int { return a.at.Compare(b.at) })
		res.Series = append(res.Series, symbolSeries(symbol, candles, p.period))
	}
	slices.SortFunc(res.Series, func(a, b SymbolSeries) int { return cmp.Compare(a.Symbol, b.Symbol) })
	return res, nil
}

func symbolSeries(symbol string, candles []datedCandle, period int) SymbolSeries {
	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	high, low := math.Inf(-1), math.Inf(1)
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}

	sma := TrailingSMA(closes, period)
	points := make([]CandlePoint, len(candles))
	for i, c := range candles {
		points[i] = CandlePoint{
			Date:          c.Date,
			Open:          c.Open,
			High:          c.High,
			Low:           c.Low,
			Close:         c.Close,
			Volume:        c.Volume,
			MovingAverage: RoundTo2(sma[i]),
		}
	}

	first, last := closes[0], closes[len(closes)-1]
	return SymbolSeries{
		Symbol:        symbol,
		Candles:       points,
		Volatility:    RoundTo2(Volatility(closes)),
		High:          high,
		Low:           low,
		FirstClose:    first,
		LastClose:     last,
		ChangePercent: RoundTo2(changePercent(first, last)),
		MovingAverage: RoundTo2(SimpleMovingAverage(closes, period)),
		AverageVolume: RoundTo2(mean(volumes)),
	}
}

// Volatility is the population standard deviation of day-over-day simple
// returns, as a percentage. Steps from a zero close are skipped.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return populationStdDev(returns) * 100
}

// TrailingSMA returns, for every index, the mean of up to period values
// ending there. Early points average whatever is available.
func TrailingSMA(values []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		n := min(i+1, period)
		out[i] = sum / float64(n)
	}
	return out
}

// SimpleMovingAverage is the trailing average at the last point.
func SimpleMovingAverage(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	return TrailingSMA(values, period)[len(values)-1]
}
