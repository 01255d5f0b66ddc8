package mockjs

import (
	"encoding/json"
	mathrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArrayCountRepeatsBySourceCycle(t *testing.T) {
	e := New(mathrand.New(mathrand.NewPCG(1, 1)))
	out, err := e.ExpandJSON([]byte(`{"code":200,"msg|3":["mock response"]}`))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, float64(200), got["code"])
	msgs, ok := got["msg"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.Equal(t, "mock response", m)
	}
}

func TestExpandPlaceholderGUID(t *testing.T) {
	e := New(nil)
	out, err := e.ExpandJSON([]byte(`{"id":"@guid"}`))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.NotEmpty(t, got["id"])
	assert.NotEqual(t, "@guid", got["id"])
}

func TestExpandUnsupportedDirectiveEmitsLiteral(t *testing.T) {
	e := New(nil)
	out, err := e.ExpandJSON([]byte(`{"x|bogus!directive":"value"}`))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "value", got["x"])
}

func TestExpandDeterministicForSameSeed(t *testing.T) {
	e1 := New(mathrand.New(mathrand.NewPCG(42, 42)))
	e2 := New(mathrand.New(mathrand.NewPCG(42, 42)))

	out1, err := e1.ExpandJSON([]byte(`{"n|1-100":0}`))
	require.NoError(t, err)
	out2, err := e2.ExpandJSON([]byte(`{"n|1-100":0}`))
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}
