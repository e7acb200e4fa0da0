package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ib-77/chartflow/pkg/transform"
	"github.com/ib-77/chartflow/pkg/unit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseChartType(t *testing.T) {
	ct, err := ParseChartType(" Treemap ")
	require.NoError(t, err)
	assert.Equal(t, Treemap, ct)

	_, err = ParseChartType("sankey")
	assert.ErrorIs(t, err, ErrUnknownChartType)
}

func TestTypes_Sorted(t *testing.T) {
	assert.Equal(t, []ChartType{
		Analytics, Candlestick, Growth, MarketPositioning,
		Resample, ROIComparison, Treemap, WeightedScoring,
	}, New().Types())
}

func TestCreate_FreshUnitEachTime(t *testing.T) {
	r := New()
	a, err := r.Create(context.Background(), Treemap)
	require.NoError(t, err)
	b, err := r.Create(context.Background(), Treemap)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	for _, u := range []*unit.Unit{a, b} {
		u.Terminate()
		for range u.Replies() {
		}
	}

	_, err = r.Create(context.Background(), "pie")
	assert.ErrorIs(t, err, ErrUnknownChartType)
}

func TestOpen_ServesEndpointActions(t *testing.T) {
	r := New()
	c, err := r.Open(context.Background(), Growth)
	require.NoError(t, err)
	defer c.Close()

	raw, err := c.Call(context.Background(), unit.ActionGrowthProjection, transform.GrowthProjectionInput{ProjectionYears: 1})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Cloud Revenue"`)

	_, err = c.Call(context.Background(), unit.ActionTreemap, nil)
	assert.ErrorIs(t, err, unit.ErrUnknownAction)

	_, err = r.Open(context.Background(), "pie")
	assert.ErrorIs(t, err, ErrUnknownChartType)
}

func TestWithEndpoint_Overrides(t *testing.T) {
	r := New(WithEndpoint(Treemap, unit.Endpoint{
		Name:    "treemap-plus",
		Actions: []unit.Action{unit.ActionTreemap, unit.ActionResample},
	}), WithEndpoint("pie", unit.Endpoint{Name: "pie"}))

	ep, err := r.Endpoint(Treemap)
	require.NoError(t, err)
	assert.True(t, ep.Allows(unit.ActionResample))
	assert.Len(t, r.Types(), 8)

	c, err := r.Open(context.Background(), Treemap)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Call(context.Background(), unit.ActionResample, nil)
	assert.NoError(t, err)
}
