package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCAGR(t *testing.T) {
	got, err := CAGR(100, 800, 3)
	require.NoError(t, err)
	assert.Equal(t, 100.00, got)

	got, err = CAGR(100, 100, 5)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = CAGR(200, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, -50.0, got)
}

func TestCAGR_DomainErrors(t *testing.T) {
	cases := []struct {
		name              string
		start, end, years float64
		field             string
	}{
		{"zero start", 0, 100, 3, "startValue"},
		{"negative start", -5, 100, 3, "startValue"},
		{"zero years", 100, 200, 0, "years"},
		{"negative years", 100, 200, -1, "years"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CAGR(tc.start, tc.end, tc.years)
			require.ErrorIs(t, err, ErrDomain)
			assert.Zero(t, got)

			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.field, de.Field)
		})
	}
}

func TestGrowthProjection_DefaultWithProjection(t *testing.T) {
	res, err := GrowthProjection(GrowthProjectionInput{ProjectionYears: 2})
	require.NoError(t, err)

	assert.True(t, res.UsedDefaultData)
	require.Len(t, res.Series, 4)

	top := res.Series[0]
	assert.Equal(t, "Cloud Revenue", top.Name)
	assert.Equal(t, 100.0, top.CAGR)
	assert.Equal(t, 8.0, top.Multiple)
	assert.Equal(t, []ProjectedPoint{{Year: 1, Value: 1600}, {Year: 2, Value: 3200}}, top.Projection)

	last := res.Series[len(res.Series)-1]
	assert.Equal(t, "Hardware Sales", last.Name)
	assert.Less(t, last.CAGR, 0.0)
}

func TestGrowthProjection_FailsLoudly(t *testing.T) {
	_, err := GrowthProjection(GrowthProjectionInput{Series: []GrowthSeries{
		{Name: "ok", StartValue: 1, EndValue: 2, Years: 1},
		{Name: "broken", StartValue: 0, EndValue: 2, Years: 1},
	}})
	require.ErrorIs(t, err, ErrDomain)
	assert.Contains(t, err.Error(), `"broken"`)

	_, err = GrowthProjection(GrowthProjectionInput{ProjectionYears: -1})
	assert.ErrorIs(t, err, ErrDomain)
}
