package aggregation

import (
	"math"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// Weights splits the overall score between formative and summative work.
type Weights struct {
	Formative float64 `json:"formative" validate:"gte=0,lte=1"`
	Summative float64 `json:"summative" validate:"gte=0,lte=1"`
}

// DefaultWeights is the CBC split used when a term defines no override.
var DefaultWeights = Weights{Formative: 0.40, Summative: 0.60}

// Validate rejects weights that do not sum to 1 within a small tolerance.
func (w Weights) Validate() error {
	if math.Abs(w.Formative+w.Summative-1.0) > 0.001 {
		return workflow.Validationf([]string{"formative", "summative"},
			"assessment weights must sum to 1.0, got %.3f", w.Formative+w.Summative)
	}
	return nil
}

// Percentage converts an accumulated total against its maximum. A zero
// maximum yields 0 rather than a division error.
func Percentage(total, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return round2(total / max * 100)
}

// Overall combines the two percentages under the given weights.
func Overall(formativePct, summativePct float64, w Weights) float64 {
	return round2(formativePct*w.Formative + summativePct*w.Summative)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
