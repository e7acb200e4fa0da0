package correlate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ib-77/chartflow/pkg/rop"
	"github.com/ib-77/chartflow/pkg/unit"
)

// Port is the raw channel to an execution unit. *unit.Unit implements it.
type Port interface {
	Send(ctx context.Context, frame []byte) error
	Replies() <-chan []byte
	Faults() <-chan error
	Terminate()
}

var _ Port = (*unit.Unit)(nil)

// Dialer opens the port on first use.
type Dialer func(ctx context.Context) (Port, error)

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client multiplexes concurrent requests over one port.
type Client struct {
	id     uuid.UUID
	dial   Dialer
	logger *zap.Logger

	mu       sync.Mutex
	port     Port
	nextID   uint64
	pending  map[uint64]*Completion
	fault    error
	closed   bool
	loopDone chan struct{}

	sendMu sync.Mutex
}

// New returns a client that has not dialed yet.
func New(dial Dialer, opts ...Option) *Client {
	c := &Client{
		id:      uuid.New(),
		dial:    dial,
		logger:  zap.NewNop(),
		pending: make(map[uint64]*Completion),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("client_id", c.id.String()))
	return c
}

func (c *Client) ID() uuid.UUID {
	return c.id
}

// Pending is the number of requests still waiting for a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Go sends a request and returns its completion without waiting. Failures
// to dial, encode or send settle the completion immediately.
func (c *Client) Go(ctx context.Context, action unit.Action, payload any) *Completion {
	port, comp, err := c.register(ctx, action)
	if err != nil {
		return settled(action, rop.Cancel[json.RawMessage](err))
	}

	id := comp.id
	frame, err := unit.EncodeRequest(unit.Envelope{ID: &id, Action: action}, payload)
	if err != nil {
		c.settle(id, rop.Fail[json.RawMessage](err))
		return comp
	}

	c.sendMu.Lock()
	err = port.Send(ctx, frame)
	c.sendMu.Unlock()
	switch {
	case err == nil:
	case errors.Is(err, unit.ErrTerminated):
		c.settle(id, rop.Cancel[json.RawMessage](fmt.Errorf("send %s: %w: %w", action, ErrChannelFault, err)))
	case rop.IsCancellation(err):
		c.settle(id, rop.Cancel[json.RawMessage](fmt.Errorf("send %s: %w", action, err)))
	default:
		c.settle(id, rop.Fail[json.RawMessage](fmt.Errorf("send %s: %w", action, err)))
	}
	return comp
}

// Call sends a request and waits for its reply. ctx bounds both the send
// and the wait; the request itself is not withdrawn when ctx ends.
func (c *Client) Call(ctx context.Context, action unit.Action, payload any) (json.RawMessage, error) {
	return c.Go(ctx, action, payload).Wait(ctx)
}

// Invoke is Call with the reply decoded into T.
func Invoke[T any](ctx context.Context, c *Client, action unit.Action, payload any) (T, error) {
	var out T
	raw, err := c.Call(ctx, action, payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s reply: %w", action, err)
	}
	return out, nil
}

// Close terminates the port and rejects whatever is still pending with
// ErrChannelClosed. It waits for the read loop to finish.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	port, done := c.port, c.loopDone
	orphans := c.takeAllLocked()
	c.mu.Unlock()

	for _, comp := range orphans {
		c.finish(comp, rop.Cancel[json.RawMessage](ErrChannelClosed))
	}
	if port != nil {
		port.Terminate()
		<-done
	}
	c.logger.Debug("client closed", zap.Int("rejected", len(orphans)))
	return nil
}

func (c *Client) register(ctx context.Context, action unit.Action) (Port, *Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, nil, ErrChannelClosed
	case c.fault != nil:
		return nil, nil, fmt.Errorf("%w: %w", ErrForfeited, c.fault)
	}

	if c.port == nil {
		port, err := c.dial(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("dial: %w", err)
		}
		c.port = port
		c.loopDone = make(chan struct{})
		go c.readLoop(port, c.loopDone)
		c.logger.Debug("channel opened")
	}

	c.nextID++
	comp := newCompletion(c.nextID, action)
	c.pending[comp.id] = comp
	return c.port, comp, nil
}

func (c *Client) take(id uint64) *Completion {
	c.mu.Lock()
	defer c.mu.Unlock()
	comp, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	return comp
}

func (c *Client) takeAllLocked() []*Completion {
	all := make([]*Completion, 0, len(c.pending))
	for _, comp := range c.pending {
		all = append(all, comp)
	}
	c.pending = make(map[uint64]*Completion)
	return all
}

func (c *Client) settle(id uint64, r rop.Result[json.RawMessage]) {
	if comp := c.take(id); comp != nil {
		c.finish(comp, r)
	}
}

func (c *Client) readLoop(port Port, done chan struct{}) {
	defer close(done)

	replies, faults := port.Replies(), port.Faults()
	for {
		select {
		case frame, ok := <-replies:
			if !ok {
				c.failAll(fmt.Errorf("%w: replies closed", ErrChannelFault))
				return
			}
			c.dispatch(frame)
		case err, ok := <-faults:
			if !ok {
				faults = nil
				continue
			}
			c.failAll(fmt.Errorf("%w: %w", ErrChannelFault, err))
			port.Terminate()
			for range replies {
			}
			return
		}
	}
}

func (c *Client) dispatch(frame []byte) {
	reply, err := unit.DecodeReply(frame)
	if err != nil {
		c.logger.Warn("undecodable reply", zap.Error(err))
		return
	}
	if !reply.Correlated() {
		c.logger.Debug("dropping reply without id", zap.String("action", reply.Action))
		return
	}

	comp := c.take(*reply.ID)
	if comp == nil {
		c.logger.Debug("dropping reply for unknown id", zap.Uint64("id", *reply.ID))
		return
	}
	if reply.Error != nil {
		c.finish(comp, rop.Fail[json.RawMessage](remoteError(reply.Error)))
		return
	}
	c.finish(comp, rop.Success(reply.Data))
}

// failAll rejects every pending completion and forfeits the client. After
// Close it does nothing: Close already rejected them.
func (c *Client) failAll(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fault = err
	orphans := c.takeAllLocked()
	c.mu.Unlock()

	c.logger.Warn("channel fault", zap.Error(err), zap.Int("rejected", len(orphans)))
	for _, comp := range orphans {
		c.finish(comp, rop.Cancel[json.RawMessage](err))
	}
}

func (c *Client) finish(comp *Completion, r rop.Result[json.RawMessage]) {
	if !comp.resolve(r) {
		return
	}
	c.logger.Debug("completion settled",
		zap.Uint64("id", comp.id),
		zap.String("action", string(comp.action)),
		zap.Stringer("result_id", r.ID()),
		zap.Bool("success", r.IsSuccess()),
		zap.Duration("elapsed", comp.Elapsed()))
}
