package aggregation

import (
	"database/sql"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// scoreKey identifies one accumulator row.
type scoreKey struct {
	StudentID string
	SubjectID string
}

// Delta is the contribution of one aggregation run to an accumulator row.
// Marks land in the formative or summative bucket by assessment kind.
type Delta struct {
	FormativeTotal float64
	FormativeMax   float64
	SummativeTotal float64
	SummativeMax   float64
}

// Accumulate adds one result to the delta.
func (d *Delta) Accumulate(kind models.AssessmentKind, marks, maxMarks float64) {
	if kind.IsFormative() {
		d.FormativeTotal += marks
		d.FormativeMax += maxMarks
	} else {
		d.SummativeTotal += marks
		d.SummativeMax += maxMarks
	}
}

// AggregateAssessment folds every verified result of an assessment into
// term_subject_scores. Totals are strictly additive, so the caller must
// guarantee each assessment is aggregated exactly once; the stage method
// does that with its aggregated-assessments marker inside the same tx.
// The overall score, grade and points are rederived for every touched row
// under the given weights. Returns the number of accumulator rows touched.
func AggregateAssessment(tx *sql.Tx, assessmentID string, w Weights, resolver *grading.Resolver) (int, error) {
	var (
		kind      models.AssessmentKind
		termID    string
		subjectID string
		maxMarks  float64
	)
	err := tx.QueryRow(`
		SELECT assessment_type, term_id, subject_id, max_marks
		FROM assessments
		WHERE id = $1 AND deleted_at IS NULL`, assessmentID,
	).Scan(&kind, &termID, &subjectID, &maxMarks)
	if err == sql.ErrNoRows {
		return 0, workflow.NotFoundf("assessment %s not found", assessmentID)
	}
	if err != nil {
		return 0, workflow.Storef(err, "failed to load assessment %s", assessmentID)
	}

	rows, err := tx.Query(`
		SELECT student_id, marks
		FROM assessment_results
		WHERE assessment_id = $1 AND verified = true`, assessmentID)
	if err != nil {
		return 0, workflow.Storef(err, "failed to load results for assessment %s", assessmentID)
	}
	defer rows.Close()

	deltas := map[scoreKey]*Delta{}
	for rows.Next() {
		var studentID string
		var marks float64
		if err := rows.Scan(&studentID, &marks); err != nil {
			return 0, workflow.Storef(err, "failed to scan assessment result")
		}
		key := scoreKey{StudentID: studentID, SubjectID: subjectID}
		d, ok := deltas[key]
		if !ok {
			d = &Delta{}
			deltas[key] = d
		}
		d.Accumulate(kind, marks, maxMarks)
	}
	if err := rows.Err(); err != nil {
		return 0, workflow.Storef(err, "failed to read assessment results")
	}

	return applyDeltas(tx, termID, deltas, w, resolver)
}

// overallFor derives the weighted overall score and its grade from the
// accumulated percentages.
func overallFor(formativePct, summativePct float64, w Weights, resolver *grading.Resolver) (float64, grading.ResolvedGrade) {
	score := Overall(formativePct, summativePct, w)
	return score, resolver.Resolve(score)
}

// applyDeltas upserts accumulator rows. The conflict branch adds the delta
// to the stored totals and recomputes both percentages from the new sums in
// the same statement; the returned percentages then feed the weighted
// overall and its grade, written back to the same row while it is still
// locked by the upsert.
func applyDeltas(tx *sql.Tx, termID string, deltas map[scoreKey]*Delta, w Weights, resolver *grading.Resolver) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO term_subject_scores
			(student_id, term_id, subject_id,
			 formative_total, formative_max, summative_total, summative_max,
			 formative_pct, summative_pct, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (student_id, term_id, subject_id) DO UPDATE SET
			formative_total = term_subject_scores.formative_total + EXCLUDED.formative_total,
			formative_max   = term_subject_scores.formative_max + EXCLUDED.formative_max,
			summative_total = term_subject_scores.summative_total + EXCLUDED.summative_total,
			summative_max   = term_subject_scores.summative_max + EXCLUDED.summative_max,
			formative_pct = CASE
				WHEN term_subject_scores.formative_max + EXCLUDED.formative_max > 0
				THEN ROUND((term_subject_scores.formative_total + EXCLUDED.formative_total)
					/ (term_subject_scores.formative_max + EXCLUDED.formative_max) * 100, 2)
				ELSE 0 END,
			summative_pct = CASE
				WHEN term_subject_scores.summative_max + EXCLUDED.summative_max > 0
				THEN ROUND((term_subject_scores.summative_total + EXCLUDED.summative_total)
					/ (term_subject_scores.summative_max + EXCLUDED.summative_max) * 100, 2)
				ELSE 0 END,
			updated_at = NOW()
		RETURNING id, formative_pct, summative_pct`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare score upsert")
	}
	defer stmt.Close()

	gradeStmt, err := tx.Prepare(`
		UPDATE term_subject_scores
		SET overall_score = $1, overall_grade = $2, overall_points = $3
		WHERE id = $4`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare overall update")
	}
	defer gradeStmt.Close()

	count := 0
	for key, d := range deltas {
		var rowID string
		var formativePct, summativePct float64
		err := stmt.QueryRow(key.StudentID, termID, key.SubjectID,
			d.FormativeTotal, d.FormativeMax, d.SummativeTotal, d.SummativeMax,
			Percentage(d.FormativeTotal, d.FormativeMax),
			Percentage(d.SummativeTotal, d.SummativeMax),
		).Scan(&rowID, &formativePct, &summativePct)
		if err != nil {
			return count, workflow.Storef(err, "failed to upsert score for student %s", key.StudentID)
		}

		overall, grade := overallFor(formativePct, summativePct, w, resolver)
		if _, err := gradeStmt.Exec(overall, grade.GradeCode, grade.GradePoints, rowID); err != nil {
			return count, workflow.Storef(err, "failed to grade score for student %s", key.StudentID)
		}
		count++
	}
	return count, nil
}

// TermScores loads the accumulator rows for one student and term.
func TermScores(db *sql.DB, studentID, termID string) ([]*models.TermSubjectScore, error) {
	rows, err := db.Query(`
		SELECT id, student_id, term_id, subject_id,
		       formative_total, formative_max, summative_total, summative_max,
		       formative_pct, summative_pct, overall_score, overall_grade, overall_points, updated_at
		FROM term_subject_scores
		WHERE student_id = $1 AND term_id = $2
		ORDER BY subject_id`, studentID, termID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to load term scores for student %s", studentID)
	}
	defer rows.Close()

	scores := []*models.TermSubjectScore{}
	for rows.Next() {
		s := &models.TermSubjectScore{}
		if err := rows.Scan(&s.ID, &s.StudentID, &s.TermID, &s.SubjectID,
			&s.FormativeTotal, &s.FormativeMax, &s.SummativeTotal, &s.SummativeMax,
			&s.FormativePct, &s.SummativePct, &s.OverallScore, &s.OverallGrade, &s.OverallPoints,
			&s.UpdatedAt); err != nil {
			return nil, workflow.Storef(err, "failed to scan term score")
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
