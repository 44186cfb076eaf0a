package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

func TestDefaultWeights(t *testing.T) {
	assert.NoError(t, DefaultWeights.Validate())
	assert.InDelta(t, 0.40, DefaultWeights.Formative, 1e-9)
	assert.InDelta(t, 0.60, DefaultWeights.Summative, 1e-9)
}

func TestWeightsValidate(t *testing.T) {
	cases := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"exact", Weights{Formative: 0.3, Summative: 0.7}, false},
		{"within tolerance", Weights{Formative: 0.3005, Summative: 0.7}, false},
		{"sums low", Weights{Formative: 0.3, Summative: 0.6}, true},
		{"sums high", Weights{Formative: 0.6, Summative: 0.6}, true},
		{"all formative", Weights{Formative: 1, Summative: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 75.0, Percentage(30, 40), 1e-9)
	assert.InDelta(t, 66.67, Percentage(2, 3), 1e-9)

	// zero or negative maximum yields 0, never a division error
	assert.Zero(t, Percentage(10, 0))
	assert.Zero(t, Percentage(10, -5))
}

func TestOverall(t *testing.T) {
	// 80*0.4 + 60*0.6 = 68
	assert.InDelta(t, 68.0, Overall(80, 60, DefaultWeights), 1e-9)

	// rounded to two decimals
	got := Overall(66.67, 71.43, Weights{Formative: 0.5, Summative: 0.5})
	assert.InDelta(t, 69.05, got, 1e-9)
}
