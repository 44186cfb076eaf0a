package workflow

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

// The engine never opens its own transaction. Every mutation takes the
// caller's *sql.Tx so the instance update, its history row and the caller's
// domain writes commit or roll back together.

// Start creates an instance at the definition's first stage.
func Start(tx *sql.Tx, def Definition, referenceID string, data json.RawMessage, actorID *string, note string) (*models.WorkflowInstance, error) {
	if referenceID == "" {
		return nil, Validationf([]string{"reference_id"}, "reference_id is required")
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	inst := &models.WorkflowInstance{
		WorkflowType: def.Code,
		ReferenceID:  referenceID,
		CurrentStage: def.First(),
		Status:       models.WorkflowInProgress,
		Data:         data,
		CreatedBy:    actorID,
	}

	err := tx.QueryRow(`
		INSERT INTO workflow_instances (workflow_type, reference_id, current_stage, status, data_json, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		inst.WorkflowType, inst.ReferenceID, inst.CurrentStage, inst.Status, string(data), actorID,
	).Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, Storef(err, "failed to create %s workflow instance", def.Code)
	}

	if err := appendHistory(tx, inst.ID, nil, inst.CurrentStage, "start", actorID, note); err != nil {
		return nil, err
	}
	return inst, nil
}

// Advance moves an instance from expectedStage to the next stage in the
// definition, merging updates into its data document.
func Advance(tx *sql.Tx, def Definition, instanceID, expectedStage string, updates json.RawMessage, actorID *string, note string) (*models.WorkflowInstance, error) {
	inst, err := lockInstance(tx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := guardStage(inst, def, expectedStage); err != nil {
		return nil, err
	}

	next, ok := def.Next(inst.CurrentStage)
	if !ok {
		return nil, InvalidStatef("stage %s is the final stage of %s, use Complete", inst.CurrentStage, def.Code)
	}

	merged, err := MergeData(inst.Data, updates)
	if err != nil {
		return nil, Validationf([]string{"data"}, "invalid stage data: %v", err)
	}

	from := inst.CurrentStage
	if err := updateInstance(tx, inst, next, models.WorkflowInProgress, merged, nil); err != nil {
		return nil, err
	}
	if err := appendHistory(tx, inst.ID, &from, next, "advance", actorID, note); err != nil {
		return nil, err
	}
	return inst, nil
}

// Complete finishes an instance at its final stage.
func Complete(tx *sql.Tx, def Definition, instanceID, expectedStage string, updates json.RawMessage, actorID *string, note string) (*models.WorkflowInstance, error) {
	inst, err := lockInstance(tx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := guardStage(inst, def, expectedStage); err != nil {
		return nil, err
	}

	merged, err := MergeData(inst.Data, updates)
	if err != nil {
		return nil, Validationf([]string{"data"}, "invalid stage data: %v", err)
	}

	from := inst.CurrentStage
	now := time.Now()
	if err := updateInstance(tx, inst, StageCompleted, models.WorkflowCompleted, merged, &now); err != nil {
		return nil, err
	}
	if err := appendHistory(tx, inst.ID, &from, StageCompleted, "complete", actorID, note); err != nil {
		return nil, err
	}
	return inst, nil
}

// SendBack resets an instance from fromStage to the stage immediately before
// it, typically when an approval stage rejects the submitted work.
func SendBack(tx *sql.Tx, def Definition, instanceID, fromStage string, actorID *string, note string) (*models.WorkflowInstance, error) {
	inst, err := lockInstance(tx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := guardStage(inst, def, fromStage); err != nil {
		return nil, err
	}

	prev, ok := def.Previous(inst.CurrentStage)
	if !ok {
		return nil, InvalidStatef("stage %s has no preceding stage in %s", inst.CurrentStage, def.Code)
	}

	from := inst.CurrentStage
	if err := updateInstance(tx, inst, prev, models.WorkflowInProgress, inst.Data, nil); err != nil {
		return nil, err
	}
	if err := appendHistory(tx, inst.ID, &from, prev, "send_back", actorID, note); err != nil {
		return nil, err
	}
	return inst, nil
}

// Reject terminates an instance without completing it.
func Reject(tx *sql.Tx, def Definition, instanceID, expectedStage string, actorID *string, note string) (*models.WorkflowInstance, error) {
	inst, err := lockInstance(tx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := guardStage(inst, def, expectedStage); err != nil {
		return nil, err
	}

	from := inst.CurrentStage
	now := time.Now()
	if err := updateInstance(tx, inst, inst.CurrentStage, models.WorkflowRejected, inst.Data, &now); err != nil {
		return nil, err
	}
	if err := appendHistory(tx, inst.ID, &from, inst.CurrentStage, "reject", actorID, note); err != nil {
		return nil, err
	}
	return inst, nil
}

// guardStage enforces the optimistic stage precondition. A caller holding a
// stale view of the instance fails here instead of corrupting the sequence.
func guardStage(inst *models.WorkflowInstance, def Definition, expectedStage string) error {
	if inst.Status != models.WorkflowInProgress {
		return InvalidStatef("workflow instance %s is %s", inst.ID, inst.Status)
	}
	if inst.CurrentStage != expectedStage {
		return InvalidStatef("workflow instance %s is at stage %s, expected %s", inst.ID, inst.CurrentStage, expectedStage)
	}
	if def.IndexOf(expectedStage) < 0 {
		return InvalidStatef("stage %s is not part of the %s workflow", expectedStage, def.Code)
	}
	return nil
}

func lockInstance(tx *sql.Tx, instanceID string) (*models.WorkflowInstance, error) {
	inst := &models.WorkflowInstance{}
	var data []byte
	err := tx.QueryRow(`
		SELECT id, workflow_type, reference_id, current_stage, status, data_json, created_by, created_at, updated_at, completed_at
		FROM workflow_instances
		WHERE id = $1
		FOR UPDATE`, instanceID,
	).Scan(&inst.ID, &inst.WorkflowType, &inst.ReferenceID, &inst.CurrentStage,
		&inst.Status, &data, &inst.CreatedBy, &inst.CreatedAt, &inst.UpdatedAt, &inst.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, NotFoundf("workflow instance %s not found", instanceID)
	}
	if err != nil {
		return nil, Storef(err, "failed to load workflow instance %s", instanceID)
	}
	inst.Data = json.RawMessage(data)
	return inst, nil
}

func updateInstance(tx *sql.Tx, inst *models.WorkflowInstance, stage string, status models.WorkflowStatus, data json.RawMessage, completedAt *time.Time) error {
	_, err := tx.Exec(`
		UPDATE workflow_instances
		SET current_stage = $1, status = $2, data_json = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $5`,
		stage, status, string(data), completedAt, inst.ID)
	if err != nil {
		return Storef(err, "failed to update workflow instance %s", inst.ID)
	}
	inst.CurrentStage = stage
	inst.Status = status
	inst.Data = data
	inst.CompletedAt = completedAt
	return nil
}

func appendHistory(tx *sql.Tx, instanceID string, fromStage *string, toStage, action string, actorID *string, note string) error {
	var notes *string
	if note != "" {
		notes = &note
	}
	_, err := tx.Exec(`
		INSERT INTO workflow_stage_history (instance_id, from_stage, to_stage, action, actor_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		instanceID, fromStage, toStage, action, actorID, notes)
	if err != nil {
		return Storef(err, "failed to record stage history for instance %s", instanceID)
	}
	return nil
}
