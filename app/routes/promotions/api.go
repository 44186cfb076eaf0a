package promotions

import (
	"database/sql"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/promotion"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// GetBatch returns a promotion batch with its workflow state.
func GetBatch(c *fiber.Ctx, db *sql.DB) error {
	batch, err := promotion.LoadBatch(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowPromotion, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"batch": batch, "workflow": inst, "history": history}, "")
}

// ListDecisions returns the recorded decisions of a batch.
func ListDecisions(c *fiber.Ctx, db *sql.DB) error {
	decisions, err := promotion.BatchDecisions(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, decisions, "")
}

type criteriaRequest struct {
	AcademicYearID string  `json:"academic_year_id" validate:"required,uuid"`
	MinAverage     float64 `json:"min_average" validate:"gte=0,lte=100"`
	MinAttendance  float64 `json:"min_attendance" validate:"gte=0,lte=100"`
}

// DefineCriteria creates the batch and opens its workflow.
func DefineCriteria(c *fiber.Ctx, db *sql.DB) error {
	var req criteriaRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	if req.MinAverage == 0 {
		req.MinAverage = 50
	}
	if req.MinAttendance == 0 {
		req.MinAttendance = 75
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	batch, err := insertBatch(tx, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{
		"academic_year_id": req.AcademicYearID,
		"min_average":      req.MinAverage,
		"min_attendance":   req.MinAttendance,
	})
	inst, err := workflow.Start(tx, workflow.Promotion, batch.ID, data, common.Actor(c),
		"Promotion criteria defined")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit batch"))
	}
	return common.Created(c, fiber.Map{"batch": batch, "workflow": inst}, "Promotion batch created")
}

// IdentifyCandidates queries the eligible students and stores the roll in
// the workflow data.
func IdentifyCandidates(c *fiber.Ctx, db *sql.DB) error {
	batch, err := promotion.LoadBatch(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowPromotion, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	candidates, err := loadCandidates(db, batch)
	if err != nil {
		return common.Fail(c, err)
	}

	ids := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		ids = append(ids, cand.StudentID)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"candidate_ids": ids, "total_candidates": len(ids)})
	inst, err = workflow.Advance(tx, workflow.Promotion, inst.ID, workflow.StageDefineCriteria,
		data, common.Actor(c), "Promotion candidates identified")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit candidates"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "total_candidates": len(ids)},
		"Promotion candidates identified")
}

// ValidateEligibility decides every candidate against the batch thresholds
// and records the decisions in one transaction.
func ValidateEligibility(c *fiber.Ctx, db *sql.DB) error {
	batch, err := promotion.LoadBatch(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowPromotion, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	candidates, err := loadCandidates(db, batch)
	if err != nil {
		return common.Fail(c, err)
	}
	if len(candidates) == 0 {
		return common.Fail(c, workflow.Validationf([]string{"candidates"},
			"no candidates identified for batch %s", batch.ID))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	criteria := promotion.Criteria{MinAverage: batch.MinAverage, MinAttendance: batch.MinAttendance}
	summary, err := promotion.ProcessBatch(tx, batch.ID, criteria, candidates)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"eligibility_summary": summary})
	inst, err = workflow.Advance(tx, workflow.Promotion, inst.ID, workflow.StageIdentifyCandidates,
		data, common.Actor(c), "Eligibility validated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit eligibility decisions"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "summary": summary}, "Eligibility validated")
}

// ExecutePromotions moves approved students into their target classes.
func ExecutePromotions(c *fiber.Ctx, db *sql.DB) error {
	batch, err := promotion.LoadBatch(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowPromotion, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	moved, graduated, err := promotion.ExecuteBatch(tx, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"students_moved": moved, "students_graduated": graduated})
	inst, err = workflow.Advance(tx, workflow.Promotion, inst.ID, workflow.StageValidateEligibility,
		data, common.Actor(c), "Promotions executed")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit promotion execution"))
	}
	return common.OK(c, fiber.Map{
		"workflow":           inst,
		"students_moved":     moved,
		"students_graduated": graduated,
	}, "Promotions executed")
}

// GenerateReport summarises the batch outcome and closes the workflow.
func GenerateReport(c *fiber.Ctx, db *sql.DB) error {
	batch, err := promotion.LoadBatch(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowPromotion, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	decisions, err := promotion.BatchDecisions(db, batch.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	summary := &promotion.Summary{}
	for _, d := range decisions {
		summary.Count(d.Decision, d.ToClassID)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"report": summary})
	inst, err = workflow.Complete(tx, workflow.Promotion, inst.ID, workflow.StageExecutePromotion,
		data, common.Actor(c), "Promotion report generated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit promotion report"))
	}
	return common.OK(c, fiber.Map{
		"workflow": inst,
		"report":   summary,
	}, "Promotion workflow completed")
}
