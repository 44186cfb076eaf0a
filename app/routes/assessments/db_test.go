package assessments

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAggregated(t *testing.T) {
	data := json.RawMessage(`{"aggregated_assessments": ["aaa", "bbb"]}`)

	assert.True(t, isAggregated(data, "aaa"))
	assert.True(t, isAggregated(data, "bbb"))
	assert.False(t, isAggregated(data, "ccc"))
}

func TestIsAggregatedWithoutMarker(t *testing.T) {
	assert.False(t, isAggregated(json.RawMessage(`{}`), "aaa"))
	assert.False(t, isAggregated(nil, "aaa"))

	// a malformed marker never reads as aggregated
	assert.False(t, isAggregated(json.RawMessage(`{"aggregated_assessments": "aaa"}`), "aaa"))
}

func TestAppendAggregated(t *testing.T) {
	data := json.RawMessage(`{"aggregated_assessments": ["aaa"]}`)
	assert.Equal(t, []string{"aaa", "bbb"}, appendAggregated(data, "bbb"))
}

func TestAppendAggregatedStartsTheMarker(t *testing.T) {
	assert.Equal(t, []string{"aaa"}, appendAggregated(json.RawMessage(`{}`), "aaa"))
	assert.Equal(t, []string{"aaa"}, appendAggregated(nil, "aaa"))
}
