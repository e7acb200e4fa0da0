package transform

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// CAGR returns the compound annual growth rate in percent, rounded to two
// decimals. A non-positive start value or duration is a domain error.
func CAGR(start, end, years float64) (float64, error) {
	if start <= 0 {
		return 0, domainErr("startValue", "must be positive, got %v", start)
	}
	if years <= 0 {
		return 0, domainErr("years", "must be positive, got %v", years)
	}
	if end < 0 {
		return 0, domainErr("endValue", "must not be negative, got %v", end)
	}
	return RoundTo2((math.Pow(end/start, 1/years) - 1) * 100), nil
}

type GrowthSeries struct {
	Name       string  `json:"name"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Years      float64 `json:"years"`
}

type GrowthProjectionInput struct {
	Series          []GrowthSeries `json:"series"`
	ProjectionYears int            `json:"projectionYears,omitempty"`
}

type ProjectedPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type GrowthResult struct {
	GrowthSeries
	CAGR       float64          `json:"cagr"`
	Multiple   float64          `json:"multiple"`
	Projection []ProjectedPoint `json:"projection,omitempty"`
}

type GrowthProjectionResult struct {
	Series          []GrowthResult `json:"series"`
	ProjectionYears int            `json:"projectionYears"`
	UsedDefaultData bool           `json:"usedDefaultData"`
}

const maxProjectionYears = 50

func normalizeGrowthProjection(in GrowthProjectionInput) (GrowthProjectionInput, bool, error) {
	usedDefault := len(in.Series) == 0
	src := in.Series
	if usedDefault {
		src = DefaultGrowthSeries()
	}

	if in.ProjectionYears < 0 || in.ProjectionYears > maxProjectionYears {
		return in, usedDefault, domainErr("projectionYears", "must be within 0..%d, got %d", maxProjectionYears, in.ProjectionYears)
	}

	series := make([]GrowthSeries, len(src))
	for i, s := range src {
		if strings.TrimSpace(s.Name) == "" {
			s.Name = fmt.Sprintf("Series %d", i+1)
		}
		series[i] = s
	}
	return GrowthProjectionInput{Series: series, ProjectionYears: in.ProjectionYears}, usedDefault, nil
}

// GrowthProjection computes the CAGR of every series and, when asked,
// compounds the end value forward year by year.
func GrowthProjection(in GrowthProjectionInput) (GrowthProjectionResult, error) {
	in, usedDefault, err := normalizeGrowthProjection(in)
	if err != nil {
		return GrowthProjectionResult{}, err
	}

	res := GrowthProjectionResult{
		Series:          make([]GrowthResult, 0, len(in.Series)),
		ProjectionYears: in.ProjectionYears,
		UsedDefaultData: usedDefault,
	}
	for _, s := range in.Series {
		rate, err := CAGR(s.StartValue, s.EndValue, s.Years)
		if err != nil {
			return GrowthProjectionResult{}, fmt.Errorf("series %q: %w", s.Name, err)
		}

		g := GrowthResult{
			GrowthSeries: s,
			CAGR:         rate,
			Multiple:     RoundTo2(s.EndValue / s.StartValue),
		}
		for k := 1; k <= in.ProjectionYears; k++ {
			g.Projection = append(g.Projection, ProjectedPoint{
				Year:  k,
				Value: RoundTo2(s.EndValue * math.Pow(1+rate/100, float64(k))),
			})
		}
		res.Series = append(res.Series, g)
	}

	slices.SortStableFunc(res.Series, func(a, b GrowthResult) int { return cmp.Compare(b.CAGR, a.CAGR) })
	return res, nil
}
