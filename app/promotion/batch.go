package promotion

import (
	"database/sql"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// Summary totals the outcome of a batch run. Approved candidates with no
// target class are leaving the school, so they count as graduated rather
// than promoted.
type Summary struct {
	Total     int `json:"total"`
	Promoted  int `json:"promoted"`
	Retained  int `json:"retained"`
	Graduated int `json:"graduated"`
}

// Count records one decision in the summary.
func (s *Summary) Count(decision models.PromotionDecision, toClassID *string) {
	s.Total++
	switch {
	case decision != models.DecisionApproved:
		s.Retained++
	case toClassID == nil:
		s.Graduated++
	default:
		s.Promoted++
	}
}

// ProcessBatch decides every candidate and records the decisions. Runs
// inside the caller's transaction so a failed run leaves no partial batch.
func ProcessBatch(tx *sql.Tx, batchID string, cr Criteria, candidates []Candidate) (*Summary, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO student_promotions (batch_id, student_id, from_class_id, to_class_id, decision, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (batch_id, student_id) DO UPDATE SET
			decision = EXCLUDED.decision,
			reason = EXCLUDED.reason,
			to_class_id = EXCLUDED.to_class_id`)
	if err != nil {
		return nil, workflow.Storef(err, "failed to prepare promotion insert")
	}
	defer stmt.Close()

	summary := &Summary{}
	for _, c := range candidates {
		decision, reason := Decide(c, cr)

		var toClass *string
		if decision == models.DecisionApproved {
			toClass = c.ToClassID
		}
		if _, err := stmt.Exec(batchID, c.StudentID, c.FromClassID, toClass, decision, reason); err != nil {
			return nil, workflow.Storef(err, "failed to record decision for student %s", c.StudentID)
		}

		summary.Count(decision, toClass)
	}

	if _, err := tx.Exec(`UPDATE promotion_batches SET status = $1 WHERE id = $2`,
		models.BatchProcessed, batchID); err != nil {
		return nil, workflow.Storef(err, "failed to mark batch %s processed", batchID)
	}
	return summary, nil
}

// ExecuteBatch moves every approved student with a target class to it and
// deactivates the graduating students, whose approval carries no target.
// Returns the moved and graduated counts.
func ExecuteBatch(tx *sql.Tx, batchID string) (int, int, error) {
	res, err := tx.Exec(`
		UPDATE students s
		SET class_id = sp.to_class_id, updated_at = NOW()
		FROM student_promotions sp
		WHERE sp.batch_id = $1
		  AND sp.student_id = s.id
		  AND sp.decision = 'approved'
		  AND sp.to_class_id IS NOT NULL`, batchID)
	if err != nil {
		return 0, 0, workflow.Storef(err, "failed to execute promotions for batch %s", batchID)
	}
	moved, _ := res.RowsAffected()

	res, err = tx.Exec(`
		UPDATE students s
		SET is_active = false, updated_at = NOW()
		FROM student_promotions sp
		WHERE sp.batch_id = $1
		  AND sp.student_id = s.id
		  AND sp.decision = 'approved'
		  AND sp.to_class_id IS NULL`, batchID)
	if err != nil {
		return 0, 0, workflow.Storef(err, "failed to graduate students for batch %s", batchID)
	}
	graduated, _ := res.RowsAffected()

	if _, err := tx.Exec(`UPDATE promotion_batches SET status = $1 WHERE id = $2`,
		models.BatchExecuted, batchID); err != nil {
		return 0, 0, workflow.Storef(err, "failed to mark batch %s executed", batchID)
	}
	return int(moved), int(graduated), nil
}

// LoadBatch fetches a batch by id.
func LoadBatch(db *sql.DB, batchID string) (*models.PromotionBatch, error) {
	b := &models.PromotionBatch{}
	err := db.QueryRow(`
		SELECT id, academic_year_id, min_average, min_attendance, status, created_by, created_at
		FROM promotion_batches
		WHERE id = $1`, batchID,
	).Scan(&b.ID, &b.AcademicYearID, &b.MinAverage, &b.MinAttendance, &b.Status, &b.CreatedBy, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, workflow.NotFoundf("promotion batch %s not found", batchID)
	}
	if err != nil {
		return nil, workflow.Storef(err, "failed to load promotion batch %s", batchID)
	}
	return b, nil
}

// BatchDecisions lists the recorded decisions of a batch.
func BatchDecisions(db *sql.DB, batchID string) ([]*models.StudentPromotion, error) {
	rows, err := db.Query(`
		SELECT id, batch_id, student_id, from_class_id, to_class_id, decision, reason, created_at
		FROM student_promotions
		WHERE batch_id = $1
		ORDER BY created_at ASC`, batchID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list decisions for batch %s", batchID)
	}
	defer rows.Close()

	decisions := []*models.StudentPromotion{}
	for rows.Next() {
		sp := &models.StudentPromotion{}
		if err := rows.Scan(&sp.ID, &sp.BatchID, &sp.StudentID, &sp.FromClassID,
			&sp.ToClassID, &sp.Decision, &sp.Reason, &sp.CreatedAt); err != nil {
			return nil, workflow.Storef(err, "failed to scan promotion decision")
		}
		decisions = append(decisions, sp)
	}
	return decisions, rows.Err()
}
