package unit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ib-77/chartflow/pkg/transform"
)

type Action string

const (
	ActionMarketPositioning Action = "marketPositioning"
	ActionROIComparison     Action = "roiComparison"
	ActionTreemap           Action = "treemap"
	ActionCandlestick       Action = "candlestick"
	ActionGrowthProjection  Action = "growthProjection"
	ActionWeightedScoring   Action = "weightedScoring"
	ActionResample          Action = "resample"
	ActionCalculateROI      Action = "calculateROI"
	ActionCalculateCAGR     Action = "calculateCAGR"
)

// Actions lists every action a unit can be built to serve.
func Actions() []Action {
	return []Action{
		ActionMarketPositioning,
		ActionROIComparison,
		ActionTreemap,
		ActionCandlestick,
		ActionGrowthProjection,
		ActionWeightedScoring,
		ActionResample,
		ActionCalculateROI,
		ActionCalculateCAGR,
	}
}

// ReadyTag is the legacy success tag for a.
func (a Action) ReadyTag() string {
	return string(a) + "Ready"
}

// TagError is the legacy failure tag.
const TagError = "error"

const (
	CodeUnknownAction  = "unknown_action"
	CodeInvalidRequest = "invalid_request"
	CodeDomainError    = "domain_error"
	CodeInternalError  = "internal_error"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidRequest = errors.New("invalid request")
	ErrPanic          = errors.New("transform panicked")
	ErrTerminated     = errors.New("unit terminated")
)

// Envelope is the routing part of a request frame. Domain fields sit next
// to it at the top level of the same object.
type Envelope struct {
	ID     *uint64 `json:"id,omitempty"`
	Action Action  `json:"action"`
}

func (e Envelope) Correlated() bool {
	return e.ID != nil
}

// EncodeRequest inlines payload's fields next to the envelope. payload must
// encode to a JSON object or null.
func EncodeRequest(env Envelope, payload any) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", env.Action, err)
		}
		if !bytes.Equal(raw, []byte("null")) {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("%s payload must be an object: %w", env.Action, err)
			}
		}
	}

	action, err := json.Marshal(env.Action)
	if err != nil {
		return nil, err
	}
	fields["action"] = action
	if env.ID != nil {
		id, err := json.Marshal(*env.ID)
		if err != nil {
			return nil, err
		}
		fields["id"] = id
	} else {
		delete(fields, "id")
	}
	return json.Marshal(fields)
}

// ReplyError is the error member of a reply. The legacy shape carries a
// bare string; it decodes into Message with an empty Code.
type ReplyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ReplyError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *ReplyError) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = ReplyError{Message: s}
		return nil
	}
	type plain ReplyError
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("reply error must be a string or an object: %w", err)
	}
	*e = ReplyError(p)
	return nil
}

// Reply decodes either reply shape.
type Reply struct {
	ID        *uint64         `json:"id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *ReplyError     `json:"error,omitempty"`
	Action    string          `json:"action,omitempty"`
	ChartData json.RawMessage `json:"chartData,omitempty"`
}

func DecodeReply(frame []byte) (Reply, error) {
	var r Reply
	if err := json.Unmarshal(frame, &r); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	return r, nil
}

func (r Reply) Correlated() bool {
	return r.ID != nil
}

// Failed reports whether r is an error reply in either shape.
func (r Reply) Failed() bool {
	return r.Error != nil || r.Action == TagError
}

// Payload returns the result of a successful reply in either shape.
func (r Reply) Payload() json.RawMessage {
	if r.Correlated() {
		return r.Data
	}
	return r.ChartData
}

type correlatedReply struct {
	ID    uint64          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ReplyError     `json:"error,omitempty"`
}

type legacyReply struct {
	Action    string          `json:"action"`
	ChartData json.RawMessage `json:"chartData,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func successFrame(env Envelope, data json.RawMessage) []byte {
	var frame []byte
	if env.Correlated() {
		frame, _ = json.Marshal(correlatedReply{ID: *env.ID, Data: data})
	} else {
		frame, _ = json.Marshal(legacyReply{Action: env.Action.ReadyTag(), ChartData: data})
	}
	return frame
}

func errorFrame(env Envelope, err error) []byte {
	re := &ReplyError{Code: errorCode(err), Message: err.Error()}
	var frame []byte
	if env.Correlated() {
		frame, _ = json.Marshal(correlatedReply{ID: *env.ID, Error: re})
	} else {
		frame, _ = json.Marshal(legacyReply{Action: TagError, Error: re.Message})
	}
	return frame
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownAction):
		return CodeUnknownAction
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, transform.ErrDomain):
		return CodeDomainError
	default:
		return CodeInternalError
	}
}
