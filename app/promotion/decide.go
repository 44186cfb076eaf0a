package promotion

import (
	"fmt"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

// autoPromoteLevels are the lower bands where retention is not applied.
// Learners there progress automatically regardless of scores.
var autoPromoteLevels = map[string]bool{
	"PP1":     true,
	"PP2":     true,
	"Grade 1": true,
	"Grade 2": true,
}

// Criteria are the thresholds a candidate outside the automatic bands must
// meet to be promoted.
type Criteria struct {
	MinAverage    float64 `json:"min_average" validate:"gte=0,lte=100"`
	MinAttendance float64 `json:"min_attendance" validate:"gte=0,lte=100"`
}

// Candidate is one student considered for promotion.
type Candidate struct {
	StudentID     string
	ClassLevel    string
	FromClassID   string
	ToClassID     *string
	Average       float64
	HasScores     bool
	AttendancePct float64
}

// Decide applies the promotion rules to one candidate. The academic check
// runs before the attendance check, and the first failed check supplies
// the retention reason.
func Decide(c Candidate, cr Criteria) (models.PromotionDecision, string) {
	if autoPromoteLevels[c.ClassLevel] {
		return models.DecisionApproved, "automatic progression for " + c.ClassLevel
	}
	if !c.HasScores || c.Average < cr.MinAverage {
		return models.DecisionRetained,
			fmt.Sprintf("average %.2f below required %.2f", c.Average, cr.MinAverage)
	}
	if c.AttendancePct < cr.MinAttendance {
		return models.DecisionRetained,
			fmt.Sprintf("attendance %.2f%% below required %.2f%%", c.AttendancePct, cr.MinAttendance)
	}
	return models.DecisionApproved, "met promotion criteria"
}
