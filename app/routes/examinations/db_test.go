package examinations

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/aggregation"
)

func TestCycleAssessmentIDs(t *testing.T) {
	data := json.RawMessage(`{"assessment_ids": ["aaa", "bbb"]}`)
	assert.Equal(t, []string{"aaa", "bbb"}, cycleAssessmentIDs(data))

	assert.Nil(t, cycleAssessmentIDs(json.RawMessage(`{}`)))
	assert.Nil(t, cycleAssessmentIDs(json.RawMessage(`{"assessment_ids": "aaa"}`)))
}

func TestAggregatedAssessmentIDs(t *testing.T) {
	data := json.RawMessage(`{"aggregated_assessments": ["aaa", "bbb"]}`)
	set := aggregatedAssessmentIDs(data)

	assert.True(t, set["aaa"])
	assert.True(t, set["bbb"])
	assert.False(t, set["ccc"])

	assert.Empty(t, aggregatedAssessmentIDs(json.RawMessage(`{}`)))
}

func TestCycleWeightsFromInstanceData(t *testing.T) {
	data := json.RawMessage(`{"formative_weight": 0.5, "summative_weight": 0.5}`)
	assert.Equal(t, aggregation.Weights{Formative: 0.5, Summative: 0.5}, cycleWeights(data))
}

func TestCycleWeightsDefaultWhenUnplanned(t *testing.T) {
	assert.Equal(t, aggregation.DefaultWeights, cycleWeights(json.RawMessage(`{}`)))
	assert.Equal(t, aggregation.DefaultWeights,
		cycleWeights(json.RawMessage(`{"formative_weight": 0.5}`)))
	assert.Equal(t, aggregation.DefaultWeights,
		cycleWeights(json.RawMessage(`{"formative_weight": "half", "summative_weight": 0.5}`)))
}

func TestCycleWeightsRejectsBrokenSplit(t *testing.T) {
	// weights that no longer sum to 1 fall back rather than skew the merge
	data := json.RawMessage(`{"formative_weight": 0.5, "summative_weight": 0.2}`)
	assert.Equal(t, aggregation.DefaultWeights, cycleWeights(data))
}
