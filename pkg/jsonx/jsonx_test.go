package jsonx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/pkg/jsonx"
)

func TestFind_ObjectInProse(t *testing.T) {
	t.Parallel()
	s, ok := jsonx.Find("Here is the result:\n```json\n{\"a\": 1}\n```\nHope it helps!")
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, s)
}

func TestFind_ArrayInProse(t *testing.T) {
	t.Parallel()
	s, ok := jsonx.Find(`The questions are ["q1", "q2"] as requested.`)
	require.True(t, ok)
	assert.Equal(t, `["q1", "q2"]`, s)
}

func TestFind_PrefersEarlierOpener(t *testing.T) {
	t.Parallel()
	// An object containing an array: the object span wins because it opens first.
	s, ok := jsonx.Find(`{"items": [1, 2]}`)
	require.True(t, ok)
	assert.Equal(t, `{"items": [1, 2]}`, s)
}

func TestFind_NoJSON(t *testing.T) {
	t.Parallel()
	_, ok := jsonx.Find("no structured content here")
	assert.False(t, ok)
}

func TestDecode_ObjectOk(t *testing.T) {
	t.Parallel()
	type out struct {
		Score float64 `json:"score"`
	}
	p := jsonx.Decode(`Sure! {"score": 0.8}`, out{Score: 0.5})
	assert.False(t, p.Defaulted)
	assert.Equal(t, 0.8, p.Value.Score)
}

func TestDecode_BareValueWithoutBraces(t *testing.T) {
	t.Parallel()
	p := jsonx.Decode(`  "hello"  `, "fallback")
	assert.False(t, p.Defaulted)
	assert.Equal(t, "hello", p.Value)
}

func TestDecode_MalformedFallsBack(t *testing.T) {
	t.Parallel()
	type out struct {
		Score float64 `json:"score"`
	}
	p := jsonx.Decode(`{"score": not json}`, out{Score: 0.5})
	require.True(t, p.Defaulted)
	assert.Equal(t, 0.5, p.Value.Score)
	assert.NotEmpty(t, p.Reason)
}

// Two top-level objects in one response break the greedy span: the scan runs
// from the first opener to the last closer, producing invalid JSON, and the
// caller gets the fallback.
func TestDecode_MultipleTopLevelValuesDefault(t *testing.T) {
	t.Parallel()
	p := jsonx.Decode(`{"a": 1} and also {"a": 2}`, map[string]int{"a": -1})
	require.True(t, p.Defaulted)
	assert.Equal(t, -1, p.Value["a"])
}
