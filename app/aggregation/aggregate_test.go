package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func TestDeltaAccumulateByKind(t *testing.T) {
	d := &Delta{}

	d.Accumulate(models.ContinuousAssessment, 18, 20)
	d.Accumulate(models.ContinuousAssessment, 7, 10)
	d.Accumulate(models.SchoolBased, 40, 50)
	d.Accumulate(models.SummativeAssessment, 55, 100)

	assert.InDelta(t, 25, d.FormativeTotal, 1e-9)
	assert.InDelta(t, 30, d.FormativeMax, 1e-9)
	assert.InDelta(t, 95, d.SummativeTotal, 1e-9)
	assert.InDelta(t, 150, d.SummativeMax, 1e-9)
}

func TestDeltaAccumulateIsAdditive(t *testing.T) {
	// running the same contribution twice doubles the bucket, which is why
	// the stage method records aggregated assessments before committing
	d := &Delta{}
	d.Accumulate(models.ContinuousAssessment, 10, 20)
	d.Accumulate(models.ContinuousAssessment, 10, 20)

	assert.InDelta(t, 20, d.FormativeTotal, 1e-9)
	assert.InDelta(t, 40, d.FormativeMax, 1e-9)
	assert.Zero(t, d.SummativeTotal)
}

func TestAssessmentKindClassification(t *testing.T) {
	assert.True(t, models.ContinuousAssessment.IsFormative())
	assert.False(t, models.SchoolBased.IsFormative())
	assert.False(t, models.SummativeAssessment.IsFormative())

	assert.True(t, models.ContinuousAssessment.Valid())
	assert.True(t, models.SchoolBased.Valid())
	assert.True(t, models.SummativeAssessment.Valid())
	assert.False(t, models.AssessmentKind("HOMEWORK").Valid())
}

func gradeResolver() *grading.Resolver {
	return grading.NewResolver([]*models.GradeRule{
		{GradeCode: "EE", GradePoints: 4, PerformanceLevel: "Exceeding Expectation", MinMark: 80, MaxMark: 100, SortOrder: 1},
		{GradeCode: "ME", GradePoints: 3, PerformanceLevel: "Meeting Expectation", MinMark: 65, MaxMark: 79.99, SortOrder: 2},
		{GradeCode: "AE", GradePoints: 2, PerformanceLevel: "Approaching Expectation", MinMark: 50, MaxMark: 64.99, SortOrder: 3},
		{GradeCode: "BE", GradePoints: 1, PerformanceLevel: "Below Expectation", MinMark: 0, MaxMark: 49.99, SortOrder: 4},
	})
}

func TestOverallForResolvesGrade(t *testing.T) {
	score, grade := overallFor(80, 60, DefaultWeights, gradeResolver())

	assert.InDelta(t, 68.00, score, 1e-9)
	assert.Equal(t, "ME", grade.GradeCode)
	assert.InDelta(t, 3, grade.GradePoints, 1e-9)
}

func TestOverallForHonorsCycleWeights(t *testing.T) {
	// the same percentages land in different bands under different splits
	even := Weights{Formative: 0.5, Summative: 0.5}

	defaultScore, defaultGrade := overallFor(90, 50, DefaultWeights, gradeResolver())
	evenScore, evenGrade := overallFor(90, 50, even, gradeResolver())

	assert.InDelta(t, 66.00, defaultScore, 1e-9)
	assert.Equal(t, "ME", defaultGrade.GradeCode)
	assert.InDelta(t, 70.00, evenScore, 1e-9)
	assert.Equal(t, "ME", evenGrade.GradeCode)
	assert.NotEqual(t, defaultScore, evenScore)
}

func TestOverallForOutOfScaleIsUngraded(t *testing.T) {
	_, grade := overallFor(0, 0, DefaultWeights, grading.NewResolver(nil))
	assert.Equal(t, grading.Ungraded, grade)
}
