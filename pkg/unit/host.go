package unit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ib-77/chartflow/pkg/rop/solo"
)

// Endpoint names a unit and the actions it accepts.
type Endpoint struct {
	Name    string   `yaml:"name" json:"name"`
	Actions []Action `yaml:"actions" json:"actions"`
}

func (e Endpoint) Allows(a Action) bool {
	return slices.Contains(e.Actions, a)
}

// Validate reports every problem with e at once.
func (e Endpoint) Validate(ctx context.Context) error {
	return solo.Join(ctx, solo.Succeed(e),
		func(_ context.Context, e Endpoint) error {
			if strings.TrimSpace(e.Name) == "" {
				return errors.New("endpoint has no name")
			}
			return nil
		},
		func(_ context.Context, e Endpoint) error {
			if len(e.Actions) == 0 {
				return fmt.Errorf("endpoint %s serves no actions", e.Name)
			}
			return nil
		},
		func(_ context.Context, e Endpoint) error {
			var errs []error
			for _, a := range e.Actions {
				if !slices.Contains(Actions(), a) {
					errs = append(errs, fmt.Errorf("endpoint %s: %w %q", e.Name, ErrUnknownAction, a))
				}
			}
			return errors.Join(errs...)
		},
		func(_ context.Context, e Endpoint) error {
			seen := make(map[Action]bool, len(e.Actions))
			for _, a := range e.Actions {
				if seen[a] {
					return fmt.Errorf("endpoint %s lists %s twice", e.Name, a)
				}
				seen[a] = true
			}
			return nil
		},
	).Err()
}

// Host turns request frames into reply frames. It keeps no state between
// calls and is safe for concurrent use.
type Host struct {
	endpoint Endpoint
	logger   *zap.Logger
}

func NewHost(endpoint Endpoint, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{endpoint: endpoint, logger: logger}
}

func (h *Host) Endpoint() Endpoint {
	return h.endpoint
}

// Handle answers exactly one reply frame for frame.
func (h *Host) Handle(ctx context.Context, frame []byte) []byte {
	env, op, err := Decode(frame)
	if err != nil {
		h.logger.Debug("rejecting frame", zap.String("endpoint", h.endpoint.Name), zap.Error(err))
		return errorFrame(env, err)
	}

	checked := solo.Validate(ctx, op, h.accepts)
	applied := solo.Try(ctx, checked, func(ctx context.Context, op Operation) (any, error) {
		return op.apply(ctx)
	})
	encoded := solo.Try(ctx, applied, func(_ context.Context, v any) (json.RawMessage, error) {
		return json.Marshal(v)
	})

	framed := solo.Map(ctx, encoded, func(_ context.Context, data json.RawMessage) []byte {
		return successFrame(env, data)
	})

	return solo.Finally(ctx, framed,
		func(_ context.Context, frame []byte) []byte {
			return frame
		},
		func(_ context.Context, err error) []byte {
			h.logger.Debug("action failed",
				zap.String("endpoint", h.endpoint.Name),
				zap.String("action", string(env.Action)),
				zap.Error(err))
			return errorFrame(env, err)
		},
		func(_ context.Context, err error) []byte {
			return errorFrame(env, err)
		})
}

func (h *Host) accepts(_ context.Context, op Operation) error {
	if _, ok := op.(Unsupported); ok || !h.endpoint.Allows(op.Action()) {
		return fmt.Errorf("%w %q on %s", ErrUnknownAction, op.Action(), h.endpoint.Name)
	}
	return nil
}
