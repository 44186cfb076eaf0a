package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func TestSummaryCountsGraduationsSeparately(t *testing.T) {
	grade2 := "grade-2-class-id"
	s := &Summary{}

	s.Count(models.DecisionApproved, &grade2)
	s.Count(models.DecisionApproved, &grade2)
	s.Count(models.DecisionApproved, nil) // final-grade learner leaving the school
	s.Count(models.DecisionRetained, nil)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Promoted)
	assert.Equal(t, 1, s.Graduated)
	assert.Equal(t, 1, s.Retained)
}

func TestSummaryRetainedNeverGraduates(t *testing.T) {
	// a retained candidate keeps no target class, which must not read as
	// a graduation
	s := &Summary{}
	s.Count(models.DecisionRetained, nil)

	assert.Equal(t, 1, s.Retained)
	assert.Zero(t, s.Graduated)
	assert.Zero(t, s.Promoted)
}
