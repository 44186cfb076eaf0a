package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func TestDefinitionsRegistry(t *testing.T) {
	expected := map[models.WorkflowType]int{
		models.WorkflowExamination:    11,
		models.WorkflowAssessment:     5,
		models.WorkflowPromotion:      5,
		models.WorkflowYearTransition: 6,
		models.WorkflowReport:         5,
		models.WorkflowLibrary:        4,
		models.WorkflowCurriculum:     4,
	}

	require.Len(t, Definitions, len(expected))
	for code, count := range expected {
		def, ok := Definitions[code]
		require.True(t, ok, "missing definition for %s", code)
		assert.Equal(t, code, def.Code)
		assert.Len(t, def.Stages, count, "stage count for %s", code)
	}
}

func TestDefinitionStagesAreUniqueWithinWorkflow(t *testing.T) {
	for code, def := range Definitions {
		seen := map[string]bool{}
		for _, stage := range def.Stages {
			assert.False(t, seen[stage], "%s repeats stage %s", code, stage)
			assert.NotEqual(t, StageCompleted, stage, "%s uses the reserved terminal marker", code)
			seen[stage] = true
		}
	}
}

func TestExaminationStageOrder(t *testing.T) {
	want := []string{
		StageExamPlanning,
		StageScheduleCreation,
		StagePaperSubmission,
		StageExamLogistics,
		StageExamAdministration,
		StageMarkingAssignment,
		StageMarksRecording,
		StageMarksVerification,
		StageMarksModeration,
		StageResultsCompilation,
		StageResultsApproval,
	}
	assert.Equal(t, want, Examination.Stages)
}

func TestFirstAndLast(t *testing.T) {
	assert.Equal(t, StageExamPlanning, Examination.First())
	assert.Equal(t, StageResultsApproval, Examination.Last())
	assert.Equal(t, StageFrameworkReview, Curriculum.First())
	assert.Equal(t, StageCurriculumReview, Curriculum.Last())
}

func TestNext(t *testing.T) {
	next, ok := Assessment.Next(StageAssessmentPlanning)
	require.True(t, ok)
	assert.Equal(t, StageItemCreation, next)

	// no stage follows the last one
	_, ok = Assessment.Next(StageResultsAnalysis)
	assert.False(t, ok)

	// unknown stages never advance
	_, ok = Assessment.Next("warming_up")
	assert.False(t, ok)
}

func TestPrevious(t *testing.T) {
	prev, ok := Promotion.Previous(StageIdentifyCandidates)
	require.True(t, ok)
	assert.Equal(t, StageDefineCriteria, prev)

	// nothing precedes the first stage
	_, ok = Promotion.Previous(StageDefineCriteria)
	assert.False(t, ok)

	_, ok = Promotion.Previous("nonexistent")
	assert.False(t, ok)
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 0, YearTransition.IndexOf(StagePrepareCalendar))
	assert.Equal(t, 5, YearTransition.IndexOf(StageValidateReadiness))
	assert.Equal(t, -1, YearTransition.IndexOf("archive_week"))
}

func TestWalkEveryWorkflowFrontToBack(t *testing.T) {
	for code, def := range Definitions {
		stage := def.First()
		for i := 1; i < len(def.Stages); i++ {
			next, ok := def.Next(stage)
			require.True(t, ok, "%s stuck at %s", code, stage)
			stage = next
		}
		assert.Equal(t, def.Last(), stage, "walk of %s did not reach the last stage", code)
		_, ok := def.Next(stage)
		assert.False(t, ok)
	}
}
