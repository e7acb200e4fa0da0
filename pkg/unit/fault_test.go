package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/chartflow/pkg/correlate"
	"github.com/ib-77/chartflow/pkg/unit"
)

func TestUnitPanic_RejectsEveryInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	dial := func(ctx context.Context) (correlate.Port, error) {
		return unit.Start(ctx, unit.Endpoint{Name: "analytics", Actions: unit.Actions()},
			unit.WithWorkers(2),
			unit.WithHandler(func(context.Context, []byte) []byte {
				<-release
				panic("slice bounds out of range")
			})), nil
	}
	client := correlate.New(dial)
	defer client.Close()

	const k = 4
	comps := make([]*correlate.Completion, k)
	for i := range comps {
		comps[i] = client.Go(context.Background(), unit.ActionTreemap, nil)
	}
	require.Equal(t, k, client.Pending())

	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, comp := range comps {
		_, err := comp.Wait(ctx)
		assert.ErrorIs(t, err, correlate.ErrChannelFault)
		assert.True(t, comp.Result().IsCancel())
	}
	assert.Zero(t, client.Pending())

	_, err := client.Call(ctx, unit.ActionTreemap, nil)
	assert.ErrorIs(t, err, correlate.ErrForfeited)
}
