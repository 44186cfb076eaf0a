package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDataOverlaysKeys(t *testing.T) {
	existing := json.RawMessage(`{"term_id":"t1","weights":{"formative":0.4},"note":"old"}`)
	updates := json.RawMessage(`{"note":"new","schedule_ready":true}`)

	merged, err := MergeData(existing, updates)
	require.NoError(t, err)

	doc := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(merged, &doc))
	assert.Equal(t, "t1", doc["term_id"])
	assert.Equal(t, "new", doc["note"])
	assert.Equal(t, true, doc["schedule_ready"])
	assert.Contains(t, doc, "weights")
}

func TestMergeDataEmptyInputs(t *testing.T) {
	merged, err := MergeData(nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(merged))

	merged, err = MergeData(nil, json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(merged))

	merged, err = MergeData(json.RawMessage(`{"a":1}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(merged))
}

func TestMergeDataRejectsNonObjects(t *testing.T) {
	_, err := MergeData(json.RawMessage(`[1,2]`), nil)
	assert.Error(t, err)

	_, err = MergeData(nil, json.RawMessage(`"just a string"`))
	assert.Error(t, err)
}

func TestDataKey(t *testing.T) {
	data := json.RawMessage(`{"aggregated_assessments":["a1","a2"],"count":2}`)

	v, ok := DataKey(data, "aggregated_assessments")
	require.True(t, ok)
	assert.Len(t, v, 2)

	_, ok = DataKey(data, "missing")
	assert.False(t, ok)

	_, ok = DataKey(nil, "anything")
	assert.False(t, ok)
}
