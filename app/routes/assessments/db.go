package assessments

import (
	"database/sql"
	"encoding/json"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

const assessmentColumns = `id, title, assessment_type, subject_id, class_id, term_id, max_marks, assessment_date, paper_path, created_by, created_at, deleted_at`

func scanAssessment(row interface{ Scan(...interface{}) error }) (*models.Assessment, error) {
	a := &models.Assessment{}
	var date sql.NullTime
	err := row.Scan(&a.ID, &a.Title, &a.AssessmentType, &a.SubjectID, &a.ClassID, &a.TermID,
		&a.MaxMarks, &date, &a.PaperPath, &a.CreatedBy, &a.CreatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		a.AssessmentDate = &models.CustomTime{Time: date.Time}
	}
	return a, nil
}

func getAssessment(db *sql.DB, id string) (*models.Assessment, error) {
	row := db.QueryRow(`SELECT `+assessmentColumns+` FROM assessments WHERE id = $1 AND deleted_at IS NULL`, id)
	a, err := scanAssessment(row)
	if err == sql.ErrNoRows {
		return nil, workflow.NotFoundf("assessment %s not found", id)
	}
	if err != nil {
		return nil, workflow.Storef(err, "failed to load assessment %s", id)
	}
	return a, nil
}

func listAssessments(db *sql.DB, termID, classID string) ([]*models.Assessment, error) {
	rows, err := db.Query(`
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR term_id::text = $1)
		  AND ($2 = '' OR class_id::text = $2)
		ORDER BY created_at DESC`, termID, classID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list assessments")
	}
	defer rows.Close()

	list := []*models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, workflow.Storef(err, "failed to scan assessment")
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func insertAssessment(tx *sql.Tx, req *planRequest, actorID *string) (*models.Assessment, error) {
	a := &models.Assessment{
		Title:          req.Title,
		AssessmentType: models.AssessmentKind(req.AssessmentType),
		SubjectID:      req.SubjectID,
		ClassID:        req.ClassID,
		TermID:         req.TermID,
		MaxMarks:       req.MaxMarks,
		CreatedBy:      actorID,
	}

	var date interface{}
	if req.AssessmentDate != "" {
		date = req.AssessmentDate
	}
	err := tx.QueryRow(`
		INSERT INTO assessments (title, assessment_type, subject_id, class_id, term_id, max_marks, assessment_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		a.Title, a.AssessmentType, a.SubjectID, a.ClassID, a.TermID, a.MaxMarks, date, actorID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to create assessment")
	}
	return a, nil
}

// batchUpsertResults saves a batch of marks in one transaction with a
// prepared statement, overwriting earlier unverified rows for the same
// student.
func batchUpsertResults(db *sql.DB, assessmentID string, req *resultsRequest, actorID *string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, workflow.Storef(err, "failed to start transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO assessment_results (assessment_id, student_id, marks, comment, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id, student_id) DO UPDATE SET
			marks = EXCLUDED.marks,
			comment = EXCLUDED.comment,
			recorded_by = EXCLUDED.recorded_by,
			updated_at = NOW()
		WHERE assessment_results.verified = false`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare result upsert")
	}
	defer stmt.Close()

	count := 0
	for _, r := range req.Results {
		if _, err := stmt.Exec(assessmentID, r.StudentID, r.Marks, r.Comment, actorID); err != nil {
			return count, workflow.Storef(err, "failed to save result for student %s", r.StudentID)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, workflow.Storef(err, "failed to commit results")
	}
	return count, nil
}

func markResultsVerified(tx *sql.Tx, assessmentID string) (int, error) {
	res, err := tx.Exec(`
		UPDATE assessment_results
		SET verified = true, updated_at = NOW()
		WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return 0, workflow.Storef(err, "failed to verify results for assessment %s", assessmentID)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// resultStats returns count, mean, min and max marks for an assessment.
func resultStats(db *sql.DB, assessmentID string) (map[string]interface{}, error) {
	var (
		count          int
		mean, min, max sql.NullFloat64
	)
	err := db.QueryRow(`
		SELECT COUNT(*), ROUND(AVG(marks), 2), MIN(marks), MAX(marks)
		FROM assessment_results
		WHERE assessment_id = $1`, assessmentID,
	).Scan(&count, &mean, &min, &max)
	if err != nil {
		return nil, workflow.Storef(err, "failed to compute statistics for assessment %s", assessmentID)
	}
	return map[string]interface{}{
		"count": count,
		"mean":  mean.Float64,
		"min":   min.Float64,
		"max":   max.Float64,
	}, nil
}

// gradeDistribution buckets the recorded marks through the grade resolver,
// using each mark as a percentage of the assessment maximum.
func gradeDistribution(db *sql.DB, a *models.Assessment, resolver *grading.Resolver) (map[string]int, error) {
	rows, err := db.Query(`SELECT marks FROM assessment_results WHERE assessment_id = $1`, a.ID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to load marks for assessment %s", a.ID)
	}
	defer rows.Close()

	distribution := map[string]int{}
	for rows.Next() {
		var marks float64
		if err := rows.Scan(&marks); err != nil {
			return nil, workflow.Storef(err, "failed to scan marks")
		}
		pct := 0.0
		if a.MaxMarks > 0 {
			pct = marks / a.MaxMarks * 100
		}
		distribution[resolver.Resolve(pct).GradeCode]++
	}
	return distribution, rows.Err()
}

// isAggregated checks the instance data marker that guards against a second
// aggregation of the same assessment.
func isAggregated(data json.RawMessage, assessmentID string) bool {
	v, ok := workflow.DataKey(data, "aggregated_assessments")
	if !ok {
		return false
	}
	ids, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, id := range ids {
		if s, ok := id.(string); ok && s == assessmentID {
			return true
		}
	}
	return false
}

// appendAggregated returns the aggregated-assessments list with the new id
// added.
func appendAggregated(data json.RawMessage, assessmentID string) []string {
	ids := []string{}
	if v, ok := workflow.DataKey(data, "aggregated_assessments"); ok {
		if raw, ok := v.([]interface{}); ok {
			for _, id := range raw {
				if s, ok := id.(string); ok {
					ids = append(ids, s)
				}
			}
		}
	}
	return append(ids, assessmentID)
}
