package reports

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/aggregation"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// compileTermReports upserts one term report per student in scope, with the
// average of their stored per-subject overall scores and the grade it
// resolves to.
func compileTermReports(tx *sql.Tx, termID string, classIDs []string, resolver *grading.Resolver) (int, error) {
	if termID == "" {
		return 0, workflow.Validationf([]string{"term_id"}, "report run has no term")
	}

	rows, err := tx.Query(`
		SELECT tss.student_id,
		       ROUND(AVG(tss.overall_score), 2)
		FROM term_subject_scores tss
		JOIN students s ON s.id = tss.student_id AND s.deleted_at IS NULL
		WHERE tss.term_id = $1
		  AND (cardinality($2::uuid[]) = 0 OR s.class_id = ANY($2))
		GROUP BY tss.student_id`,
		termID, pq.Array(classIDs))
	if err != nil {
		return 0, workflow.Storef(err, "failed to compute term averages")
	}
	defer rows.Close()

	type row struct {
		studentID string
		average   float64
	}
	averages := []row{}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.studentID, &r.average); err != nil {
			return 0, workflow.Storef(err, "failed to scan term average")
		}
		averages = append(averages, r)
	}
	if err := rows.Err(); err != nil {
		return 0, workflow.Storef(err, "failed to read term averages")
	}

	stmt, err := tx.Prepare(`
		INSERT INTO term_reports (student_id, term_id, overall_average, overall_grade)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, term_id) DO UPDATE SET
			overall_average = EXCLUDED.overall_average,
			overall_grade = EXCLUDED.overall_grade`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare report upsert")
	}
	defer stmt.Close()

	for _, r := range averages {
		grade := resolver.Resolve(r.average).GradeCode
		if _, err := stmt.Exec(r.studentID, termID, r.average, grade); err != nil {
			return 0, workflow.Storef(err, "failed to upsert report for student %s", r.studentID)
		}
	}
	return len(averages), nil
}

func attachRemarks(tx *sql.Tx, termID string, req *remarksRequest) (int, error) {
	stmt, err := tx.Prepare(`
		UPDATE term_reports
		SET class_teacher_remark = COALESCE($1, class_teacher_remark),
		    head_teacher_remark = COALESCE($2, head_teacher_remark)
		WHERE student_id = $3 AND term_id = $4`)
	if err != nil {
		return 0, workflow.Storef(err, "failed to prepare remark update")
	}
	defer stmt.Close()

	updated := 0
	for _, r := range req.Remarks {
		res, err := stmt.Exec(r.ClassTeacherRemark, r.HeadTeacherRemark, r.StudentID, termID)
		if err != nil {
			return updated, workflow.Storef(err, "failed to attach remarks for student %s", r.StudentID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			updated++
		}
	}
	return updated, nil
}

func publishReports(tx *sql.Tx, termID string) (int, error) {
	res, err := tx.Exec(`
		UPDATE term_reports
		SET published_at = NOW()
		WHERE term_id = $1 AND published_at IS NULL`, termID)
	if err != nil {
		return 0, workflow.Storef(err, "failed to publish reports for term %s", termID)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func studentReport(db *sql.DB, studentID, termID string) (*models.TermReport, []*models.TermSubjectScore, error) {
	r := &models.TermReport{}
	err := db.QueryRow(`
		SELECT id, student_id, term_id, overall_average, overall_grade,
		       class_teacher_remark, head_teacher_remark, published_at, created_at
		FROM term_reports
		WHERE student_id = $1 AND term_id = $2`, studentID, termID,
	).Scan(&r.ID, &r.StudentID, &r.TermID, &r.OverallAverage, &r.OverallGrade,
		&r.ClassTeacherRemark, &r.HeadTeacherRemark, &r.PublishedAt, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, workflow.NotFoundf("no report for student %s in term %s", studentID, termID)
	}
	if err != nil {
		return nil, nil, workflow.Storef(err, "failed to load report for student %s", studentID)
	}

	scores, err := aggregation.TermScores(db, studentID, termID)
	if err != nil {
		return nil, nil, err
	}
	return r, scores, nil
}
