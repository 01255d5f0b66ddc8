package synth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devproxy/rewriteproxy/pkg/rule"
)

func TestSynthesizePassThroughWhenNoResponse(t *testing.T) {
	r := &rule.Rule{Path: "/api/thing"}
	resp, err := Synthesize(r, Options{})
	require.NoError(t, err)
	assert.True(t, resp.PassThrough)
}

func TestSynthesizeRawJSONObject(t *testing.T) {
	r := &rule.Rule{
		Status:   200,
		Response: json.RawMessage(`{"code":200,"msg":"ok"}`),
	}
	resp, err := Synthesize(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	assert.JSONEq(t, `{"code":200,"msg":"ok"}`, string(resp.Body))
}

func TestSynthesizeMockJSArrayDirective(t *testing.T) {
	r := &rule.Rule{
		Status:       200,
		ResponseType: rule.ResponseTypeMockJS,
		Response:     json.RawMessage(`{"code":200,"msg|3":["mock response"]}`),
	}
	resp, err := Synthesize(r, Options{Seed: 1, HasSeed: true})
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body, &got))
	msgs, ok := got["msg"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.Equal(t, "mock response", m)
	}
}

func TestSynthesizeRawStringUnwrapsForJSONP(t *testing.T) {
	r := &rule.Rule{
		Status:   200,
		Response: json.RawMessage(`"I am a (weird) string"`),
	}
	resp, err := Synthesize(r, Options{JSONPCallback: "cb"})
	require.NoError(t, err)
	assert.Equal(t, "application/javascript", resp.ContentType)
	assert.Equal(t, `cb(I am a (weird) string)`, string(resp.Body))
}

func TestSynthesizeJSONPWrapsObjectBody(t *testing.T) {
	r := &rule.Rule{
		Status:   200,
		Response: json.RawMessage(`{"a":1}`),
	}
	resp, err := Synthesize(r, Options{JSONPCallback: "handleResponse"})
	require.NoError(t, err)
	assert.Equal(t, `handleResponse({"a":1})`, string(resp.Body))
	assert.Equal(t, "application/javascript", resp.ContentType)
}

func TestSynthesizeDelayConvertsMillisecondsToDuration(t *testing.T) {
	r := &rule.Rule{Status: 200, Delay: 250, Response: json.RawMessage(`"x"`)}
	resp, err := Synthesize(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(250), resp.Delay.Milliseconds())
}
