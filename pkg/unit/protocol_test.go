package unit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest_InlinesPayload(t *testing.T) {
	id := uint64(9)
	frame, err := EncodeRequest(Envelope{ID: &id, Action: ActionCalculateROI},
		CalculateROI{Investment: 100, Returns: 150})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":9,"action":"calculateROI","investment":100,"returns":150}`, string(frame))

	frame, err = EncodeRequest(Envelope{Action: ActionTreemap}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"treemap"}`, string(frame))

	_, err = EncodeRequest(Envelope{Action: ActionTreemap}, []int{1, 2})
	assert.Error(t, err)
}

func TestEncodeRequest_EnvelopeWins(t *testing.T) {
	frame, err := EncodeRequest(Envelope{Action: ActionResample},
		map[string]any{"id": 3, "action": "spoofed", "interval": "week"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"resample","interval":"week"}`, string(frame))
}

func TestReplyError_AcceptsStringOrObject(t *testing.T) {
	var obj ReplyError
	require.NoError(t, json.Unmarshal([]byte(`{"code":"domain_error","message":"bad"}`), &obj))
	assert.Equal(t, ReplyError{Code: CodeDomainError, Message: "bad"}, obj)
	assert.Equal(t, "domain_error: bad", obj.Error())

	var str ReplyError
	require.NoError(t, json.Unmarshal([]byte(`"boom"`), &str))
	assert.Equal(t, ReplyError{Message: "boom"}, str)
	assert.Equal(t, "boom", str.Error())

	var bad ReplyError
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestDecodeReply_Shapes(t *testing.T) {
	r, err := DecodeReply([]byte(`{"id":4,"data":{"roi":50}}`))
	require.NoError(t, err)
	assert.True(t, r.Correlated())
	assert.False(t, r.Failed())
	assert.JSONEq(t, `{"roi":50}`, string(r.Payload()))

	r, err = DecodeReply([]byte(`{"action":"treemapReady","chartData":{"total":1}}`))
	require.NoError(t, err)
	assert.False(t, r.Correlated())
	assert.False(t, r.Failed())
	assert.JSONEq(t, `{"total":1}`, string(r.Payload()))

	r, err = DecodeReply([]byte(`{"action":"error","error":"nope"}`))
	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.Equal(t, "nope", r.Error.Message)

	_, err = DecodeReply([]byte(`{`))
	assert.Error(t, err)
}
