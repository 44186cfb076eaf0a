package transition

import (
	"database/sql"
	"encoding/json"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// archiveSnapshot counts the closing year's records and retires it as the
// current year.
func archiveSnapshot(tx *sql.Tx, fromYearID string) (map[string]interface{}, error) {
	if fromYearID == "" {
		return nil, workflow.Validationf([]string{"from_year_id"}, "transition has no source year")
	}

	var terms, scores, completed int
	err := tx.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM terms WHERE academic_year_id = $1),
			(SELECT COUNT(*) FROM term_subject_scores tss
				JOIN terms t ON t.id = tss.term_id WHERE t.academic_year_id = $1),
			(SELECT COUNT(*) FROM workflow_instances WHERE status = 'completed')`,
		fromYearID,
	).Scan(&terms, &scores, &completed)
	if err != nil {
		return nil, workflow.Storef(err, "failed to snapshot year %s", fromYearID)
	}

	if _, err := tx.Exec(`UPDATE academic_years SET is_current = false, updated_at = NOW() WHERE id = $1`,
		fromYearID); err != nil {
		return nil, workflow.Storef(err, "failed to retire year %s", fromYearID)
	}

	return map[string]interface{}{
		"terms":               terms,
		"score_rows":          scores,
		"completed_workflows": completed,
	}, nil
}

func batchStatus(db *sql.DB, batchID string) (models.BatchStatus, error) {
	var status models.BatchStatus
	err := db.QueryRow(`SELECT status FROM promotion_batches WHERE id = $1`, batchID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", workflow.NotFoundf("promotion batch %s not found", batchID)
	}
	if err != nil {
		return "", workflow.Storef(err, "failed to load promotion batch %s", batchID)
	}
	return status, nil
}

// createNewYear inserts the academic year and its terms from the calendar
// planned at the first stage, and makes the year current.
func createNewYear(tx *sql.Tx, data json.RawMessage) (*models.AcademicYear, error) {
	name := dataString(data, "new_year_name")
	start := dataString(data, "new_year_start")
	end := dataString(data, "new_year_end")
	if name == "" || start == "" || end == "" {
		return nil, workflow.Validationf([]string{"new_year_name", "new_year_start", "new_year_end"},
			"planned calendar is incomplete")
	}

	year := &models.AcademicYear{Name: name, IsCurrent: true, IsActive: true}
	err := tx.QueryRow(`
		INSERT INTO academic_years (name, start_date, end_date, is_current, is_active)
		VALUES ($1, $2, $3, true, true)
		RETURNING id, start_date, end_date, created_at`, name, start, end,
	).Scan(&year.ID, &year.StartDate, &year.EndDate, &year.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to create academic year %s", name)
	}

	v, ok := workflow.DataKey(data, "planned_terms")
	if ok {
		planned, _ := v.([]interface{})
		stmt, err := tx.Prepare(`
			INSERT INTO terms (academic_year_id, name, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, true)
			RETURNING id, start_date, end_date, created_at`)
		if err != nil {
			return nil, workflow.Storef(err, "failed to prepare term insert")
		}
		defer stmt.Close()

		for _, entry := range planned {
			plan, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			term := &models.Term{AcademicYearID: year.ID, IsActive: true}
			term.Name, _ = plan["name"].(string)
			tStart, _ := plan["start_date"].(string)
			tEnd, _ := plan["end_date"].(string)

			err := stmt.QueryRow(year.ID, term.Name, tStart, tEnd).Scan(
				&term.ID, &term.StartDate, &term.EndDate, &term.CreatedAt)
			if err != nil {
				return nil, workflow.Storef(err, "failed to create term %s", term.Name)
			}
			year.Terms = append(year.Terms, term)
		}
	}
	return year, nil
}

// migrateBaselines copies each student's closing-year average of stored
// overall scores into term_reports for the year's final term, creating the
// baseline the next year's teachers start from.
func migrateBaselines(tx *sql.Tx, fromYearID string) (int, error) {
	if fromYearID == "" {
		return 0, workflow.Validationf([]string{"from_year_id"}, "transition has no source year")
	}

	res, err := tx.Exec(`
		INSERT INTO term_reports (student_id, term_id, overall_average)
		SELECT tss.student_id, tss.term_id,
		       ROUND(AVG(tss.overall_score), 2)
		FROM term_subject_scores tss
		JOIN terms t ON t.id = tss.term_id
		WHERE t.academic_year_id = $1
		  AND t.end_date = (SELECT MAX(end_date) FROM terms WHERE academic_year_id = $1)
		GROUP BY tss.student_id, tss.term_id
		ON CONFLICT (student_id, term_id) DO UPDATE SET
			overall_average = EXCLUDED.overall_average`, fromYearID)
	if err != nil {
		return 0, workflow.Storef(err, "failed to migrate baselines for year %s", fromYearID)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// readinessChecks verifies the new year can open: the year exists and is
// current, it has terms, and active students are placed in classes.
func readinessChecks(db *sql.DB, newYearID string) (map[string]bool, []string, error) {
	var isCurrent bool
	var termCount, unplaced int
	err := db.QueryRow(`
		SELECT
			COALESCE((SELECT is_current FROM academic_years WHERE id = $1), false),
			(SELECT COUNT(*) FROM terms WHERE academic_year_id = $1),
			(SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL AND class_id IS NULL)`,
		newYearID,
	).Scan(&isCurrent, &termCount, &unplaced)
	if err != nil {
		return nil, nil, workflow.Storef(err, "failed to run readiness checks")
	}

	checks := map[string]bool{
		"year_is_current": isCurrent,
		"terms_created":   termCount > 0,
		"students_placed": unplaced == 0,
	}
	failed := []string{}
	for name, ok := range checks {
		if !ok {
			failed = append(failed, name)
		}
	}
	return checks, failed, nil
}
