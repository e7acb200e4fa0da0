package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analytics() Endpoint {
	return Endpoint{Name: "analytics", Actions: Actions()}
}

func handle(t *testing.T, h *Host, frame string) Reply {
	t.Helper()
	r, err := DecodeReply(h.Handle(context.Background(), []byte(frame)))
	require.NoError(t, err)
	return r
}

func TestHost_CorrelatedSuccess(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `{"id":5,"action":"calculateCAGR","startValue":100,"endValue":800,"years":3}`)
	require.True(t, r.Correlated())
	assert.Equal(t, uint64(5), *r.ID)
	assert.Nil(t, r.Error)
	assert.JSONEq(t, `{"startValue":100,"endValue":800,"years":3,"cagr":100}`, string(r.Data))
}

func TestHost_LegacySuccess(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `{"action":"calculateROI","investment":0,"returns":500}`)
	assert.False(t, r.Correlated())
	assert.Equal(t, "calculateROIReady", r.Action)
	assert.JSONEq(t, `{"investment":0,"returns":500,"roi":0}`, string(r.ChartData))
}

func TestHost_DefaultDatasetThroughTheWire(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `{"id":1,"action":"marketPositioning"}`)
	require.Nil(t, r.Error)
	assert.Contains(t, string(r.Data), `"usedDefaultData":true`)
}

func TestHost_UnknownActionIsExplicit(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `{"id":2,"action":"pieChart"}`)
	require.NotNil(t, r.Error)
	assert.Equal(t, uint64(2), *r.ID)
	assert.Equal(t, CodeUnknownAction, r.Error.Code)
	assert.Contains(t, r.Error.Message, "pieChart")

	r = handle(t, h, `{"action":"pieChart"}`)
	assert.Equal(t, TagError, r.Action)
	require.NotNil(t, r.Error)
	assert.Contains(t, r.Error.Message, "unknown action")
}

func TestHost_ActionOutsideEndpointIsUnknown(t *testing.T) {
	h := NewHost(Endpoint{Name: "treemap", Actions: []Action{ActionTreemap}}, nil)

	r := handle(t, h, `{"id":3,"action":"calculateROI","investment":1,"returns":2}`)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeUnknownAction, r.Error.Code)

	r = handle(t, h, `{"id":4,"action":"treemap"}`)
	assert.Nil(t, r.Error)
}

func TestEndpoint_Validate(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, analytics().Validate(ctx))

	err := Endpoint{}.Validate(ctx)
	assert.ErrorContains(t, err, "no name")
	assert.ErrorContains(t, err, "no actions")

	err = Endpoint{Name: "treemap", Actions: []Action{ActionTreemap, "sankey", "pieChart", ActionTreemap}}.Validate(ctx)
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.ErrorContains(t, err, `"sankey"`)
	assert.ErrorContains(t, err, `"pieChart"`)
	assert.ErrorContains(t, err, "twice")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, analytics().Validate(canceled), context.Canceled)
}

func TestHost_DomainErrorCarriesMessage(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `{"id":6,"action":"calculateCAGR","startValue":0,"endValue":10,"years":2}`)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeDomainError, r.Error.Code)
	assert.Contains(t, r.Error.Message, "startValue")
}

func TestHost_InvalidFrames(t *testing.T) {
	h := NewHost(analytics(), nil)

	r := handle(t, h, `not json`)
	assert.Equal(t, TagError, r.Action)
	assert.Contains(t, r.Error.Message, "invalid request")

	r = handle(t, h, `{"id":8}`)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeInvalidRequest, r.Error.Code)

	r = handle(t, h, `{"id":9,"action":"treemap","periods":"yesterday"}`)
	require.NotNil(t, r.Error)
	assert.Equal(t, uint64(9), *r.ID)
	assert.Equal(t, CodeInvalidRequest, r.Error.Code)

	r = handle(t, h, `{"id":5,"action":7}`)
	require.True(t, r.Correlated())
	assert.Equal(t, uint64(5), *r.ID)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeInvalidRequest, r.Error.Code)
	assert.Contains(t, r.Error.Message, "action")

	r = handle(t, h, `{"id":"five","action":"treemap"}`)
	assert.False(t, r.Correlated())
	assert.Equal(t, TagError, r.Action)

	r = handle(t, h, `{"id":null,"action":"calculateROI","investment":1,"returns":2}`)
	assert.False(t, r.Correlated())
	assert.Equal(t, "calculateROIReady", r.Action)
}

func TestDecode_KeepsIDOnBadAction(t *testing.T) {
	env, op, err := Decode([]byte(`{"id":12,"action":["treemap"]}`))
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Nil(t, op)
	require.NotNil(t, env.ID)
	assert.Equal(t, uint64(12), *env.ID)
}

func TestDecode_ClosedUnion(t *testing.T) {
	for _, a := range Actions() {
		_, op, err := Decode([]byte(`{"action":"` + string(a) + `"}`))
		require.NoError(t, err)
		assert.Equal(t, a, op.Action())
		assert.NotEqual(t, Unsupported{Name: a}, op)
	}

	_, op, err := Decode([]byte(`{"action":"sankey"}`))
	require.NoError(t, err)
	assert.Equal(t, Unsupported{Name: "sankey"}, op)
}
