package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

var strictCriteria = Criteria{MinAverage: 50, MinAttendance: 75}

func TestDecideAutomaticBands(t *testing.T) {
	for _, level := range []string{"PP1", "PP2", "Grade 1", "Grade 2"} {
		c := Candidate{StudentID: "s1", ClassLevel: level, Average: 0, HasScores: false, AttendancePct: 0}
		decision, reason := Decide(c, strictCriteria)

		assert.Equal(t, models.DecisionApproved, decision, level)
		assert.Equal(t, "automatic progression for "+level, reason)
	}
}

func TestDecideMeetsAllCriteria(t *testing.T) {
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 4", Average: 62.5, HasScores: true, AttendancePct: 90}
	decision, reason := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionApproved, decision)
	assert.Equal(t, "met promotion criteria", reason)
}

func TestDecideLowAverage(t *testing.T) {
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 5", Average: 43.2, HasScores: true, AttendancePct: 95}
	decision, reason := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionRetained, decision)
	assert.Equal(t, "average 43.20 below required 50.00", reason)
}

func TestDecideNoScoresCountsAsFailingAverage(t *testing.T) {
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 6", Average: 0, HasScores: false, AttendancePct: 100}
	decision, reason := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionRetained, decision)
	assert.Contains(t, reason, "average")
}

func TestDecideLowAttendance(t *testing.T) {
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 3", Average: 70, HasScores: true, AttendancePct: 60}
	decision, reason := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionRetained, decision)
	assert.Equal(t, "attendance 60.00% below required 75.00%", reason)
}

func TestDecideAcademicCheckRunsFirst(t *testing.T) {
	// both checks fail; the retention reason names the academic one
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 5", Average: 30, HasScores: true, AttendancePct: 10}
	decision, reason := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionRetained, decision)
	assert.Contains(t, reason, "average")
	assert.NotContains(t, reason, "attendance")
}

func TestDecideBoundaryValuesPass(t *testing.T) {
	c := Candidate{StudentID: "s1", ClassLevel: "Grade 4", Average: 50, HasScores: true, AttendancePct: 75}
	decision, _ := Decide(c, strictCriteria)

	assert.Equal(t, models.DecisionApproved, decision)
}
