package unit

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ib-77/chartflow/pkg/rop/core"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 16
)

type options struct {
	logger    *zap.Logger
	workers   int
	queueSize int
	handle    func(ctx context.Context, frame []byte) []byte
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers sets the worker count used when the start context carries no
// core worker options.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.queueSize = n
		}
	}
}

// Unit is a running execution unit. Requests go in through Send, replies
// come out of Replies in completion order, which need not be request order.
type Unit struct {
	id     uuid.UUID
	host   *Host
	handle func(ctx context.Context, frame []byte) []byte
	logger *zap.Logger

	inbox   chan []byte
	replies <-chan []byte
	faults  chan error

	ctx       context.Context
	terminate context.CancelFunc
	once      sync.Once
}

// Start launches a unit serving endpoint. It runs until Terminate is called,
// ctx is done, or a transform panics.
func Start(ctx context.Context, endpoint Endpoint, opts ...Option) *Unit {
	o := options{
		logger:    zap.NewNop(),
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger := o.logger.With(zap.String("unit", endpoint.Name), zap.String("unit_id", id.String()))
	workers := core.GetWorkerMaxCount(ctx, o.workers)
	queue := core.GetQueueSize(ctx, o.queueSize)

	ctx, cancel := context.WithCancel(ctx)
	u := &Unit{
		id:        id,
		host:      NewHost(endpoint, logger),
		logger:    logger,
		inbox:     make(chan []byte, queue),
		faults:    make(chan error, 1),
		ctx:       ctx,
		terminate: cancel,
	}
	u.handle = u.host.Handle
	if o.handle != nil {
		u.handle = o.handle
	}

	hooks := core.Hooks[[]byte, []byte]{
		OnDelivered: func(_ context.Context, reply []byte) {
			logger.Debug("reply delivered", zap.Int("bytes", len(reply)))
		},
		OnCancelUnprocessed: func(_ context.Context, frame []byte) {
			logger.Debug("dropping request on shutdown", zap.Int("bytes", len(frame)))
		},
		OnCancelProcessed: func(_ context.Context, _ []byte, reply []byte) {
			logger.Debug("dropping reply on shutdown", zap.Int("bytes", len(reply)))
		},
	}
	u.replies = core.Run(ctx, u.inbox, u.serve, hooks, workers, queue)

	logger.Debug("unit started", zap.Int("workers", workers), zap.Int("queue", queue))
	return u
}

func (u *Unit) ID() uuid.UUID {
	return u.id
}

func (u *Unit) Endpoint() Endpoint {
	return u.host.Endpoint()
}

// Send queues a copy of frame. It blocks while the inbox is full and fails
// with ErrTerminated once the unit has stopped.
func (u *Unit) Send(ctx context.Context, frame []byte) error {
	if u.ctx.Err() != nil {
		return ErrTerminated
	}
	select {
	case <-u.ctx.Done():
		return ErrTerminated
	case <-ctx.Done():
		return ctx.Err()
	case u.inbox <- slices.Clone(frame):
		return nil
	}
}

// Replies is closed once every worker has stopped.
func (u *Unit) Replies() <-chan []byte {
	return u.replies
}

// Faults yields at most one error: the failure that brought the unit down.
func (u *Unit) Faults() <-chan error {
	return u.faults
}

// Terminate stops the unit. Requests still queued are dropped. Safe to call
// more than once.
func (u *Unit) Terminate() {
	u.once.Do(func() {
		u.logger.Debug("unit terminated")
		u.terminate()
	})
}

func (u *Unit) Done() <-chan struct{} {
	return u.ctx.Done()
}

func (u *Unit) serve(ctx context.Context, frame []byte) (reply []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			u.fault(fmt.Errorf("%w on %s: %v", ErrPanic, u.host.Endpoint().Name, r))
			reply, ok = nil, false
		}
	}()
	return u.handle(ctx, frame), true
}

func (u *Unit) fault(err error) {
	u.logger.Error("unit fault", zap.Error(err))
	select {
	case u.faults <- err:
	default:
	}
	u.Terminate()
}
