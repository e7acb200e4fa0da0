package transform

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	IntervalDay     = "day"
	IntervalWeek    = "week"
	IntervalMonth   = "month"
	IntervalQuarter = "quarter"
	IntervalYear    = "year"
)

type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type ResampleInput struct {
	Points   []SeriesPoint `json:"points"`
	Interval string        `json:"interval,omitempty"`
	Smooth   bool          `json:"smooth,omitempty"`
}

type Bucket struct {
	Key   string  `json:"key"`
	Start string  `json:"start"`
	Value float64 `json:"value"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type ResampleResult struct {
	Interval        string   `json:"interval"`
	Smoothed        bool     `json:"smoothed"`
	Buckets         []Bucket `json:"buckets"`
	UsedDefaultData bool     `json:"usedDefaultData"`
}

// BucketKey names the bucket t falls into. Keys sort chronologically within
// one interval. Weeks are day-of-month / 7, so W0 holds days 1-6 and W4 days
// 28-31. Quarters are numbered Q1 to Q4 from (month-1)/3 + 1.
func BucketKey(t time.Time, interval string) (string, error) {
	y, m, d := t.Date()
	switch interval {
	case IntervalDay:
		return t.Format(dateLayout), nil
	case IntervalWeek:
		return fmt.Sprintf("%04d-%02d-W%d", y, int(m), d/7), nil
	case IntervalMonth:
		return fmt.Sprintf("%04d-%02d", y, int(m)), nil
	case IntervalQuarter:
		return fmt.Sprintf("%04d-Q%d", y, (int(m)-1)/3+1), nil
	case IntervalYear:
		return fmt.Sprintf("%04d", y), nil
	default:
		return "", domainErr("interval", "unknown interval %q", interval)
	}
}

// Smooth3 replaces every interior value with the mean of itself and its two
// neighbours. The first and last values pass through unchanged.
func Smooth3(values []float64) []float64 {
	out := slices.Clone(values)
	for i := 1; i < len(values)-1; i++ {
		out[i] = (values[i-1] + values[i] + values[i+1]) / 3
	}
	return out
}

type resampleParams struct {
	points   []datedPoint
	interval string
	smooth   bool
}

type datedPoint struct {
	at    time.Time
	value float64
}

func normalizeResample(in ResampleInput) (resampleParams, bool, error) {
	usedDefault := len(in.Points) == 0
	src := in.Points
	if usedDefault {
		src = DefaultSeriesPoints()
	}

	interval := strings.ToLower(strings.TrimSpace(in.Interval))
	if interval == "" {
		interval = IntervalMonth
	}
	if _, err := BucketKey(time.Time{}, interval); err != nil {
		return resampleParams{}, usedDefault, err
	}

	points := make([]datedPoint, 0, len(src))
	for _, p := range src {
		at, err := parseDate("date", p.Date)
		if err != nil {
			return resampleParams{}, usedDefault, err
		}
		points = append(points, datedPoint{at: at, value: p.Value})
	}
	return resampleParams{points: points, interval: interval, smooth: in.Smooth}, usedDefault, nil
}

// Resample averages points per interval bucket and optionally smooths the
// bucket means with Smooth3.
func Resample(in ResampleInput) (ResampleResult, error) {
	p, usedDefault, err := normalizeResample(in)
	if err != nil {
		return ResampleResult{}, err
	}

	type acc struct {
		start time.Time
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, pt := range p.points {
		key, _ := BucketKey(pt.at, p.interval)
		a, ok := groups[key]
		if !ok {
			a = &acc{start: pt.at}
			groups[key] = a
		}
		if pt.at.Before(a.start) {
			a.start = pt.at
		}
		a.sum += pt.value
		a.count++
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	means := make([]float64, len(keys))
	for i, k := range keys {
		means[i] = groups[k].sum / float64(groups[k].count)
	}
	values := means
	if p.smooth {
		values = Smooth3(means)
	}

	res := ResampleResult{
		Interval:        p.interval,
		Smoothed:        p.smooth,
		Buckets:         make([]Bucket, len(keys)),
		UsedDefaultData: usedDefault,
	}
	for i, k := range keys {
		res.Buckets[i] = Bucket{
			Key:   k,
			Start: groups[k].start.Format(dateLayout),
			Value: RoundTo2(values[i]),
			Mean:  RoundTo2(means[i]),
			Count: groups[k].count,
		}
	}
	return res, nil
}
