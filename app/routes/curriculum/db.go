package curriculum

import (
	"database/sql"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

func scanPlan(row interface{ Scan(...interface{}) error }) (*models.CurriculumPlan, error) {
	var p models.CurriculumPlan
	err := row.Scan(&p.ID, &p.SubjectID, &p.ClassID, &p.TermID, &p.Title, &p.Outline, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func getPlan(db *sql.DB, planID string) (*models.CurriculumPlan, error) {
	row := db.QueryRow(`
		SELECT id, subject_id, class_id, term_id, title, outline, created_by, created_at
		FROM curriculum_plans
		WHERE id = $1`, planID)

	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, workflow.NotFoundf("curriculum plan %s not found", planID)
	}
	if err != nil {
		return nil, workflow.Storef(err, "failed to load curriculum plan")
	}
	return plan, nil
}

func listPlans(db *sql.DB, termID string) ([]*models.CurriculumPlan, error) {
	rows, err := db.Query(`
		SELECT id, subject_id, class_id, term_id, title, outline, created_by, created_at
		FROM curriculum_plans
		WHERE ($1 = '' OR term_id::text = $1)
		ORDER BY created_at DESC`, termID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list curriculum plans")
	}
	defer rows.Close()

	plans := []*models.CurriculumPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, workflow.Storef(err, "failed to scan curriculum plan")
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func insertPlan(tx *sql.Tx, req *frameworkRequest, createdBy *string) (*models.CurriculumPlan, error) {
	plan := &models.CurriculumPlan{
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		TermID:    req.TermID,
		Title:     req.Title,
		CreatedBy: createdBy,
	}
	err := tx.QueryRow(`
		INSERT INTO curriculum_plans (subject_id, class_id, term_id, title, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		plan.SubjectID, plan.ClassID, plan.TermID, plan.Title, plan.CreatedBy,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to create curriculum plan")
	}
	return plan, nil
}

func updateOutline(tx *sql.Tx, planID, outline string) error {
	res, err := tx.Exec(`UPDATE curriculum_plans SET outline = $1 WHERE id = $2`, outline, planID)
	if err != nil {
		return workflow.Storef(err, "failed to update plan outline")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.NotFoundf("curriculum plan %s not found", planID)
	}
	return nil
}
