package correlate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ib-77/chartflow/pkg/rop"
	"github.com/ib-77/chartflow/pkg/unit"
)

// Completion is the pending answer to one request. It settles exactly once.
type Completion struct {
	id     uint64
	action unit.Action
	issued time.Time
	done   chan struct{}
	once   sync.Once
	result rop.Result[json.RawMessage]
}

func newCompletion(id uint64, action unit.Action) *Completion {
	return &Completion{id: id, action: action, issued: time.Now().UTC(), done: make(chan struct{})}
}

func settled(action unit.Action, r rop.Result[json.RawMessage]) *Completion {
	c := newCompletion(0, action)
	c.resolve(r)
	return c
}

func (c *Completion) ID() uint64 {
	return c.id
}

func (c *Completion) Action() unit.Action {
	return c.action
}

// Done is closed once the completion has settled.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Result is the settled outcome. Before Done is closed it is the empty Result.
func (c *Completion) Result() rop.Result[json.RawMessage] {
	select {
	case <-c.done:
		return c.result
	default:
		return rop.Result[json.RawMessage]{}
	}
}

// Elapsed is the time from issue to settlement, zero while pending.
func (c *Completion) Elapsed() time.Duration {
	select {
	case <-c.done:
		return c.result.CreatedAt().Sub(c.issued)
	default:
		return 0
	}
}

// Wait blocks until the completion settles or ctx is done. Giving up on ctx
// leaves the request in flight.
func (c *Completion) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-c.done:
		return c.result.Get()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Completion) resolve(r rop.Result[json.RawMessage]) bool {
	resolved := false
	c.once.Do(func() {
		c.result = r
		close(c.done)
		resolved = true
	})
	return resolved
}
