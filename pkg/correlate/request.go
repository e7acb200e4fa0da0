package correlate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ib-77/chartflow/pkg/unit"
)

// Request is the legacy one-shot exchange: one frame without an id, the
// next reply taken as its answer. It must not share a port with a Client.
func Request(ctx context.Context, port Port, action unit.Action, payload any) (json.RawMessage, error) {
	frame, err := unit.EncodeRequest(unit.Envelope{Action: action}, payload)
	if err != nil {
		return nil, err
	}
	if err := port.Send(ctx, frame); err != nil {
		return nil, fmt.Errorf("send %s: %w", action, err)
	}

	select {
	case out, ok := <-port.Replies():
		if !ok {
			return nil, fmt.Errorf("%w: replies closed", ErrChannelFault)
		}
		reply, err := unit.DecodeReply(out)
		if err != nil {
			return nil, err
		}
		if reply.Failed() {
			if reply.Error == nil {
				return nil, &RemoteError{Message: "unspecified error"}
			}
			return nil, remoteError(reply.Error)
		}
		if reply.Action != action.ReadyTag() {
			return nil, fmt.Errorf("%w: expected %s, got %q", ErrChannelFault, action.ReadyTag(), reply.Action)
		}
		return reply.ChartData, nil
	case err := <-port.Faults():
		return nil, fmt.Errorf("%w: %w", ErrChannelFault, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
