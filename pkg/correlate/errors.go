package correlate

import (
	"errors"

	"github.com/ib-77/chartflow/pkg/transform"
	"github.com/ib-77/chartflow/pkg/unit"
)

var (
	ErrChannelFault  = errors.New("channel fault")
	ErrChannelClosed = errors.New("channel closed")
	ErrForfeited     = errors.New("client forfeited after channel fault")
)

// RemoteError is an error reply from the unit. It unwraps to the matching
// local sentinel so callers can test it with errors.Is.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case unit.CodeUnknownAction:
		return unit.ErrUnknownAction
	case unit.CodeInvalidRequest:
		return unit.ErrInvalidRequest
	case unit.CodeDomainError:
		return transform.ErrDomain
	default:
		return nil
	}
}

func remoteError(re *unit.ReplyError) *RemoteError {
	return &RemoteError{Code: re.Code, Message: re.Message}
}
