package transform

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(points []QuadrantPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

func names(companies []Company) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Name
	}
	return out
}

func TestClassifyQuadrants_EveryPointInExactlyOneBucket(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			points := make([]QuadrantPoint, n)
			for i := range points {
				points[i] = QuadrantPoint{
					Label: fmt.Sprintf("p%02d", i),
					X:     float64((i * 37) % 11),
					Y:     float64((i * 53) % 7),
					Rank:  float64(i),
					Index: i,
				}
			}

			q := ClassifyQuadrants(points)
			require.Equal(t, n, q.Len())

			seen := make(map[string]int)
			for _, bucket := range [][]QuadrantPoint{q.HighHigh, q.HighLow, q.LowHigh, q.LowLow} {
				for _, p := range bucket {
					seen[p.Label]++
				}
			}
			require.Len(t, seen, n)
			for label, count := range seen {
				assert.Equalf(t, 1, count, "%s placed %d times", label, count)
			}
		})
	}
}

func TestClassifyQuadrants_ValueAtMeanIsLow(t *testing.T) {
	q := ClassifyQuadrants([]QuadrantPoint{
		{Label: "low", X: 1, Y: 1},
		{Label: "mean", X: 2, Y: 2},
		{Label: "high", X: 3, Y: 3},
	})

	assert.Equal(t, 2.0, q.MeanX)
	assert.Equal(t, []string{"high"}, labels(q.HighHigh))
	assert.ElementsMatch(t, []string{"low", "mean"}, labels(q.LowLow))
	assert.Empty(t, q.HighLow)
	assert.Empty(t, q.LowHigh)
}

func TestClassifyQuadrants_IdenticalAxisLeavesHighSideEmpty(t *testing.T) {
	q := ClassifyQuadrants([]QuadrantPoint{
		{Label: "a", X: 5, Y: 1},
		{Label: "b", X: 5, Y: 9},
		{Label: "c", X: 5, Y: 4},
	})

	assert.Empty(t, q.HighHigh)
	assert.Empty(t, q.HighLow)
	assert.Equal(t, []string{"b"}, labels(q.LowHigh))
	assert.ElementsMatch(t, []string{"a", "c"}, labels(q.LowLow))
}

func TestClassifyQuadrants_BucketsSortedByRankDescending(t *testing.T) {
	q := ClassifyQuadrants([]QuadrantPoint{
		{Label: "small", X: 10, Y: 10, Rank: 1},
		{Label: "big", X: 11, Y: 11, Rank: 9},
		{Label: "mid", X: 12, Y: 12, Rank: 5},
		{Label: "floor", X: 0, Y: 0, Rank: 100},
	})

	assert.Equal(t, []string{"big", "mid", "small"}, labels(q.HighHigh))
}

func TestMarketPositioning_DefaultDatasetFillsEveryQuadrant(t *testing.T) {
	res, err := MarketPositioning(MarketPositioningInput{})
	require.NoError(t, err)

	assert.True(t, res.UsedDefaultData)
	assert.NotEmpty(t, res.Leaders)
	assert.NotEmpty(t, res.Established)
	assert.NotEmpty(t, res.Challengers)
	assert.NotEmpty(t, res.Niche)
	assert.Equal(t, 16, len(res.Leaders)+len(res.Established)+len(res.Challengers)+len(res.Niche))
	assert.Len(t, res.Series, 16)

	assert.Equal(t, []string{"Apex Dynamics", "Cobalt Networks"}, names(res.Leaders))
	assert.Equal(t, 6.25, res.AverageMarketShare)
}

func TestMarketPositioning_SeriesKeepsInputOrder(t *testing.T) {
	res, err := MarketPositioning(MarketPositioningInput{Companies: []Company{
		{Name: "A", MarketShare: 30, GrowthRate: 1, Revenue: 3},
		{Name: "", MarketShare: 10, GrowthRate: 9, Revenue: 1},
	}})
	require.NoError(t, err)

	want := []ScatterPoint{
		{Label: "A", X: 30, Y: 1, Size: 3, Quadrant: QuadrantEstablished},
		{Label: "Company 2", X: 10, Y: 9, Size: 1, Quadrant: QuadrantChallengers},
	}
	if diff := cmp.Diff(want, res.Series); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, res.UsedDefaultData)
}
