package examinations

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/aggregation"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// cycleWeights reads the formative/summative split planned for the cycle
// out of its data document. Cycles planned without an override fall back
// to the default split.
func cycleWeights(data json.RawMessage) aggregation.Weights {
	f, fok := workflow.DataKey(data, "formative_weight")
	s, sok := workflow.DataKey(data, "summative_weight")
	if !fok || !sok {
		return aggregation.DefaultWeights
	}
	formative, fok := f.(float64)
	summative, sok := s.(float64)
	if !fok || !sok {
		return aggregation.DefaultWeights
	}
	w := aggregation.Weights{Formative: formative, Summative: summative}
	if err := w.Validate(); err != nil {
		return aggregation.DefaultWeights
	}
	return w
}

// cycleAssessmentIDs reads the assessments linked to the cycle out of its
// data document.
func cycleAssessmentIDs(data json.RawMessage) []string {
	v, ok := workflow.DataKey(data, "assessment_ids")
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	ids := []string{}
	for _, id := range raw {
		if s, ok := id.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

// aggregatedAssessmentIDs reads the set of assessments a previous
// compilation run already folded in.
func aggregatedAssessmentIDs(data json.RawMessage) map[string]bool {
	set := map[string]bool{}
	v, ok := workflow.DataKey(data, "aggregated_assessments")
	if !ok {
		return set
	}
	raw, ok := v.([]interface{})
	if !ok {
		return set
	}
	for _, id := range raw {
		if s, ok := id.(string); ok {
			set[s] = true
		}
	}
	return set
}

func verifyAssessmentResults(tx *sql.Tx, assessmentIDs []string) (int, error) {
	res, err := tx.Exec(`
		UPDATE assessment_results
		SET verified = true, updated_at = NOW()
		WHERE assessment_id = ANY($1)`, pq.Array(assessmentIDs))
	if err != nil {
		return 0, workflow.Storef(err, "failed to verify assessment results")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// applyModeration overwrites marks for the adjusted students and stamps the
// moderation reason into the result comment.
func applyModeration(tx *sql.Tx, req *moderationRequest, actorID *string) (int, error) {
	stmt, err := tx.Prepare(`
		UPDATE assessment_results
		SET marks = $1, comment = $2, recorded_by = $3, updated_at = NOW()
		WHERE assessment_id = $4 AND student_id = $5`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare moderation update")
	}
	defer stmt.Close()

	adjusted := 0
	for _, adj := range req.Adjustments {
		comment := "moderated: " + adj.Reason
		res, err := stmt.Exec(adj.Marks, comment, actorID, adj.AssessmentID, adj.StudentID)
		if err != nil {
			return adjusted, workflow.Storef(err, "failed to moderate result for student %s", adj.StudentID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			adjusted++
		}
	}
	return adjusted, nil
}

func insertCompetency(db *sql.DB, req *competencyRequest, actorID *string) (*models.LearnerCompetency, error) {
	lc := &models.LearnerCompetency{
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		TermID:     req.TermID,
		Competency: req.Competency,
		Level:      req.Level,
		Evidence:   req.Evidence,
		RecordedBy: actorID,
	}
	err := db.QueryRow(`
		INSERT INTO learner_competencies (student_id, subject_id, term_id, competency, level, evidence, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		lc.StudentID, lc.SubjectID, lc.TermID, lc.Competency, lc.Level, lc.Evidence, actorID,
	).Scan(&lc.ID, &lc.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to record competency")
	}
	return lc, nil
}

func listCompetencies(db *sql.DB, studentID, termID string) ([]*models.LearnerCompetency, error) {
	rows, err := db.Query(`
		SELECT id, student_id, subject_id, term_id, competency, level, evidence, recorded_by, created_at
		FROM learner_competencies
		WHERE student_id = $1 AND ($2 = '' OR term_id::text = $2)
		ORDER BY created_at DESC`, studentID, termID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list competencies for student %s", studentID)
	}
	defer rows.Close()

	list := []*models.LearnerCompetency{}
	for rows.Next() {
		lc := &models.LearnerCompetency{}
		if err := rows.Scan(&lc.ID, &lc.StudentID, &lc.SubjectID, &lc.TermID,
			&lc.Competency, &lc.Level, &lc.Evidence, &lc.RecordedBy, &lc.CreatedAt); err != nil {
			return nil, workflow.Storef(err, "failed to scan competency")
		}
		list = append(list, lc)
	}
	return list, rows.Err()
}
