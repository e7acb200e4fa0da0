package core

import (
	"context"
	"sync"
)

// Hooks observe what a locomotive does with work around cancellation.
type Hooks[In, Out any] struct {
	OnCancel            func(ctx context.Context, inbox <-chan In)
	OnCancelUnprocessed func(ctx context.Context, unprocessed In)
	OnCancelProcessed   func(ctx context.Context, in In, processed Out)
	OnDelivered         func(ctx context.Context, out Out)
}

// Locomotive pulls values from inbox until it is closed or ctx is done.
// engine reports false when a value produced nothing to deliver.
func Locomotive[In, Out any](ctx context.Context, inbox <-chan In, outbox chan<- Out,
	engine func(ctx context.Context, in In) (Out, bool),
	hooks Hooks[In, Out], wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			if hooks.OnCancel != nil {
				hooks.OnCancel(ctx, inbox)
			}
			return
		case in, ok := <-inbox:
			if !ok {
				return
			}

			if ctx.Err() != nil {
				if hooks.OnCancelUnprocessed != nil {
					hooks.OnCancelUnprocessed(ctx, in)
				}
				if hooks.OnCancel != nil {
					hooks.OnCancel(ctx, inbox)
				}
				return
			}

			out, deliver := engine(ctx, in)
			if !deliver {
				continue
			}

			select {
			case <-ctx.Done():
				if hooks.OnCancelProcessed != nil {
					hooks.OnCancelProcessed(ctx, in, out)
				}
				if hooks.OnCancel != nil {
					hooks.OnCancel(ctx, inbox)
				}
				return
			case outbox <- out:
				if hooks.OnDelivered != nil {
					hooks.OnDelivered(ctx, out)
				}
			}
		}
	}
}

// Run starts lines locomotives over one inbox. The returned channel is closed
// once every locomotive has stopped.
func Run[In, Out any](ctx context.Context, inbox <-chan In,
	engine func(ctx context.Context, in In) (Out, bool),
	hooks Hooks[In, Out], lines, buffer int) <-chan Out {

	if lines < 1 {
		lines = 1
	}
	if buffer < 0 {
		buffer = 0
	}

	out := make(chan Out, buffer)
	wg := &sync.WaitGroup{}

	for range lines {
		wg.Add(1)
		go Locomotive(ctx, inbox, out, engine, hooks, wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
