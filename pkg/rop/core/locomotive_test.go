package core

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func feed(values ...int) <-chan int {
	in := make(chan int, len(values))
	for _, v := range values {
		in <- v
	}
	close(in)
	return in
}

func TestRun_DeliversEveryValue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out := Run(ctx, feed(1, 2, 3, 4, 5),
		func(_ context.Context, in int) (int, bool) { return in * 2, true },
		Hooks[int, int]{}, 3, 0)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	sort.Ints(got)
	assert.Equal(t, []int{2, 4, 6, 8, 10}, got)
}

func TestRun_SkipsUndeliveredValues(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var delivered atomic.Int32
	out := Run(ctx, feed(1, 2, 3, 4),
		func(_ context.Context, in int) (int, bool) { return in, in%2 == 0 },
		Hooks[int, int]{
			OnDelivered: func(context.Context, int) { delivered.Add(1) },
		}, 1, 0)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 4}, got)
	assert.EqualValues(t, 2, delivered.Load())
}

func TestLocomotive_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	inbox := make(chan int)
	outbox := make(chan int)
	var cancelled atomic.Bool

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go Locomotive(ctx, inbox, outbox,
		func(_ context.Context, in int) (int, bool) { return in, true },
		Hooks[int, int]{
			OnCancel: func(context.Context, <-chan int) { cancelled.Store(true) },
		}, wg)

	cancel()
	wg.Wait()
	require.True(t, cancelled.Load())
}

func TestLocomotive_ReportsProcessedValueOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	inbox := make(chan int, 1)
	outbox := make(chan int)
	var lost atomic.Int32

	inbox <- 7
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go Locomotive(ctx, inbox, outbox,
		func(_ context.Context, in int) (int, bool) {
			cancel()
			return in * 10, true
		},
		Hooks[int, int]{
			OnCancelProcessed: func(_ context.Context, _ int, processed int) { lost.Store(int32(processed)) },
		}, wg)

	wg.Wait()
	assert.EqualValues(t, 70, lost.Load())
}

func TestWorkerOptions(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 4, GetWorkerMaxCount(ctx, 4))
	assert.Equal(t, 2, GetWorkerMaxCount(WithWorkerOptions(ctx, 2), 4))
	assert.Equal(t, 4, GetWorkerMaxCount(WithWorkerOptions(ctx, 0), 4))

	assert.Equal(t, 16, GetQueueSize(ctx, 16))
	assert.Equal(t, 0, GetQueueSize(WithQueueOptions(ctx, 0), 16))
}
