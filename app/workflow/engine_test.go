package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func inProgressInstance(stage string) *models.WorkflowInstance {
	return &models.WorkflowInstance{
		ID:           "0b2f8b1a-0000-0000-0000-000000000001",
		WorkflowType: models.WorkflowExamination,
		CurrentStage: stage,
		Status:       models.WorkflowInProgress,
	}
}

func TestGuardStageAllowsMatchingStage(t *testing.T) {
	inst := inProgressInstance(StageMarksRecording)
	assert.NoError(t, guardStage(inst, Examination, StageMarksRecording))
}

func TestGuardStageRejectsStaleStageView(t *testing.T) {
	// a racer that loaded the instance before another transition committed
	// carries a stage that no longer matches
	inst := inProgressInstance(StageMarksVerification)
	err := guardStage(inst, Examination, StageMarksRecording)

	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), StageMarksVerification)
	assert.Contains(t, err.Error(), StageMarksRecording)
}

func TestGuardStageRejectsTerminalInstances(t *testing.T) {
	completed := inProgressInstance(StageCompleted)
	completed.Status = models.WorkflowCompleted
	err := guardStage(completed, Examination, StageResultsCompilation)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), string(models.WorkflowCompleted))

	rejected := inProgressInstance(StageMarksModeration)
	rejected.Status = models.WorkflowRejected
	err = guardStage(rejected, Examination, StageMarksModeration)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestGuardStageRejectsStageOutsideDefinition(t *testing.T) {
	inst := inProgressInstance(StageAdministration)
	err := guardStage(inst, Examination, StageAdministration)

	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), string(Examination.Code))
}
