package transform

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// QuadrantPoint is one entity placed on two metric axes. Rank orders
// entities inside a bucket.
type QuadrantPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Rank  float64 `json:"rank"`
	Index int     `json:"-"`
}

// Quadrants partitions points around the mean of each axis. A point sits on
// the high side of an axis only when it is strictly greater than the mean;
// a value equal to the mean belongs to the low side.
type Quadrants struct {
	MeanX    float64         `json:"meanX"`
	MeanY    float64         `json:"meanY"`
	HighHigh []QuadrantPoint `json:"highHigh"`
	HighLow  []QuadrantPoint `json:"highLow"`
	LowHigh  []QuadrantPoint `json:"lowHigh"`
	LowLow   []QuadrantPoint `json:"lowLow"`
}

func (q Quadrants) Len() int {
	return len(q.HighHigh) + len(q.HighLow) + len(q.LowHigh) + len(q.LowLow)
}

// ClassifyQuadrants buckets every point into exactly one quadrant and sorts
// each bucket by Rank descending.
func ClassifyQuadrants(points []QuadrantPoint) Quadrants {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	q := Quadrants{
		MeanX:    mean(xs),
		MeanY:    mean(ys),
		HighHigh: make([]QuadrantPoint, 0),
		HighLow:  make([]QuadrantPoint, 0),
		LowHigh:  make([]QuadrantPoint, 0),
		LowLow:   make([]QuadrantPoint, 0),
	}

	for _, p := range points {
		highX := p.X > q.MeanX
		highY := p.Y > q.MeanY
		switch {
		case highX && highY:
			q.HighHigh = append(q.HighHigh, p)
		case highX:
			q.HighLow = append(q.HighLow, p)
		case highY:
			q.LowHigh = append(q.LowHigh, p)
		default:
			q.LowLow = append(q.LowLow, p)
		}
	}

	for _, bucket := range [][]QuadrantPoint{q.HighHigh, q.HighLow, q.LowHigh, q.LowLow} {
		slices.SortStableFunc(bucket, byRankDesc)
	}
	return q
}

func byRankDesc(a, b QuadrantPoint) int {
	if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
		return c
	}
	return strings.Compare(a.Label, b.Label)
}

// ScatterPoint is a rendered dot in a positioning chart.
type ScatterPoint struct {
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Quadrant string  `json:"quadrant"`
}

const (
	QuadrantLeaders     = "leaders"
	QuadrantEstablished = "established"
	QuadrantChallengers = "challengers"
	QuadrantNiche       = "niche"
)

type Company struct {
	Name        string  `json:"name"`
	MarketShare float64 `json:"marketShare"`
	GrowthRate  float64 `json:"growthRate"`
	Revenue     float64 `json:"revenue"`
}

type MarketPositioningInput struct {
	Companies []Company `json:"companies"`
}

type MarketPositioningResult struct {
	Leaders            []Company      `json:"leaders"`
	Established        []Company      `json:"established"`
	Challengers        []Company      `json:"challengers"`
	Niche              []Company      `json:"niche"`
	AverageMarketShare float64        `json:"averageMarketShare"`
	AverageGrowthRate  float64        `json:"averageGrowthRate"`
	Series             []ScatterPoint `json:"series"`
	UsedDefaultData    bool           `json:"usedDefaultData"`
}

func normalizeMarketPositioning(in MarketPositioningInput) (MarketPositioningInput, bool) {
	usedDefault := len(in.Companies) == 0
	src := in.Companies
	if usedDefault {
		src = DefaultCompanies()
	}

	companies := make([]Company, len(src))
	for i, c := range src {
		if strings.TrimSpace(c.Name) == "" {
			c.Name = fmt.Sprintf("Company %d", i+1)
		}
		companies[i] = c
	}
	return MarketPositioningInput{Companies: companies}, usedDefault
}

// MarketPositioning splits companies by market share (x) and growth rate (y),
// ranking each quadrant by revenue.
func MarketPositioning(in MarketPositioningInput) (MarketPositioningResult, error) {
	in, usedDefault := normalizeMarketPositioning(in)

	points := make([]QuadrantPoint, len(in.Companies))
	for i, c := range in.Companies {
		points[i] = QuadrantPoint{Label: c.Name, X: c.MarketShare, Y: c.GrowthRate, Rank: c.Revenue, Index: i}
	}
	q := ClassifyQuadrants(points)

	pick := func(bucket []QuadrantPoint) []Company {
		out := make([]Company, len(bucket))
		for i, p := range bucket {
			out[i] = in.Companies[p.Index]
		}
		return out
	}

	res := MarketPositioningResult{
		Leaders:            pick(q.HighHigh),
		Established:        pick(q.HighLow),
		Challengers:        pick(q.LowHigh),
		Niche:              pick(q.LowLow),
		AverageMarketShare: RoundTo2(q.MeanX),
		AverageGrowthRate:  RoundTo2(q.MeanY),
		Series:             scatter(q, QuadrantLeaders, QuadrantEstablished, QuadrantChallengers, QuadrantNiche),
		UsedDefaultData:    usedDefault,
	}
	return res, nil
}

// scatter flattens quadrants back into input order with their bucket names.
func scatter(q Quadrants, hh, hl, lh, ll string) []ScatterPoint {
	out := make([]ScatterPoint, q.Len())
	place := func(bucket []QuadrantPoint, name string) {
		for _, p := range bucket {
			out[p.Index] = ScatterPoint{Label: p.Label, X: p.X, Y: p.Y, Size: p.Rank, Quadrant: name}
		}
	}
	place(q.HighHigh, hh)
	place(q.HighLow, hl)
	place(q.LowHigh, lh)
	place(q.LowLow, ll)
	return out
}
