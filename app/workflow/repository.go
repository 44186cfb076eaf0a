package workflow

import (
	"database/sql"
	"encoding/json"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

// Read-side queries. These take *sql.DB because no stage guard is involved.

const instanceColumns = `id, workflow_type, reference_id, current_stage, status, data_json, created_by, created_at, updated_at, completed_at`

func scanInstance(row interface{ Scan(...interface{}) error }) (*models.WorkflowInstance, error) {
	inst := &models.WorkflowInstance{}
	var data []byte
	err := row.Scan(&inst.ID, &inst.WorkflowType, &inst.ReferenceID, &inst.CurrentStage,
		&inst.Status, &data, &inst.CreatedBy, &inst.CreatedAt, &inst.UpdatedAt, &inst.CompletedAt)
	if err != nil {
		return nil, err
	}
	inst.Data = json.RawMessage(data)
	return inst, nil
}

// GetInstance loads one instance by id.
func GetInstance(db *sql.DB, instanceID string) (*models.WorkflowInstance, error) {
	row := db.QueryRow(`SELECT `+instanceColumns+` FROM workflow_instances WHERE id = $1`, instanceID)
	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, NotFoundf("workflow instance %s not found", instanceID)
	}
	if err != nil {
		return nil, Storef(err, "failed to load workflow instance %s", instanceID)
	}
	return inst, nil
}

// GetByReference finds the newest instance of a workflow type attached to a
// domain record.
func GetByReference(db *sql.DB, wfType models.WorkflowType, referenceID string) (*models.WorkflowInstance, error) {
	row := db.QueryRow(`
		SELECT `+instanceColumns+`
		FROM workflow_instances
		WHERE workflow_type = $1 AND reference_id = $2
		ORDER BY created_at DESC
		LIMIT 1`, wfType, referenceID)
	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, NotFoundf("no %s workflow for reference %s", wfType, referenceID)
	}
	if err != nil {
		return nil, Storef(err, "failed to load %s workflow for reference %s", wfType, referenceID)
	}
	return inst, nil
}

// ListInstances returns instances filtered by type and/or status. Empty
// filters match everything.
func ListInstances(db *sql.DB, wfType models.WorkflowType, status models.WorkflowStatus, limit int) ([]*models.WorkflowInstance, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT `+instanceColumns+`
		FROM workflow_instances
		WHERE ($1 = '' OR workflow_type = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC
		LIMIT $3`, string(wfType), string(status), limit)
	if err != nil {
		return nil, Storef(err, "failed to list workflow instances")
	}
	defer rows.Close()

	instances := []*models.WorkflowInstance{}
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, Storef(err, "failed to scan workflow instance")
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// History returns the transition log for an instance, oldest first.
func History(db *sql.DB, instanceID string) ([]*models.StageHistory, error) {
	rows, err := db.Query(`
		SELECT id, instance_id, from_stage, to_stage, action, actor_id, notes, created_at
		FROM workflow_stage_history
		WHERE instance_id = $1
		ORDER BY created_at ASC`, instanceID)
	if err != nil {
		return nil, Storef(err, "failed to load stage history for instance %s", instanceID)
	}
	defer rows.Close()

	entries := []*models.StageHistory{}
	for rows.Next() {
		h := &models.StageHistory{}
		if err := rows.Scan(&h.ID, &h.InstanceID, &h.FromStage, &h.ToStage, &h.Action, &h.ActorID, &h.Notes, &h.CreatedAt); err != nil {
			return nil, Storef(err, "failed to scan stage history entry")
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// StaleInProgress finds instances that have not moved for the given number
// of days. The maintenance sweep logs them for follow-up.
func StaleInProgress(db *sql.DB, idleDays int) ([]*models.WorkflowInstance, error) {
	rows, err := db.Query(`
		SELECT `+instanceColumns+`
		FROM workflow_instances
		WHERE status = 'in_progress'
		  AND updated_at < NOW() - ($1 || ' days')::interval
		ORDER BY updated_at ASC`, idleDays)
	if err != nil {
		return nil, Storef(err, "failed to query stale workflow instances")
	}
	defer rows.Close()

	instances := []*models.WorkflowInstance{}
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, Storef(err, "failed to scan stale workflow instance")
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}
