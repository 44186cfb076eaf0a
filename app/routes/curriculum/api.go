package curriculum

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// ListPlans returns curriculum plans, optionally filtered by term.
func ListPlans(c *fiber.Ctx, db *sql.DB) error {
	plans, err := listPlans(db, c.Query("term_id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, plans, "")
}

// GetPlan returns one plan with its workflow state.
func GetPlan(c *fiber.Ctx, db *sql.DB) error {
	plan, err := getPlan(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowCurriculum, plan.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"plan": plan, "workflow": inst, "history": history}, "")
}

type frameworkRequest struct {
	SubjectID      string   `json:"subject_id" validate:"required,uuid"`
	ClassID        string   `json:"class_id" validate:"required,uuid"`
	TermID         string   `json:"term_id" validate:"required,uuid"`
	Title          string   `json:"title" validate:"required"`
	FrameworkNotes string   `json:"framework_notes,omitempty"`
	Strands        []string `json:"strands,omitempty"`
}

// ReviewFramework creates the plan and opens its workflow with the
// framework review findings.
func ReviewFramework(c *fiber.Ctx, db *sql.DB) error {
	var req frameworkRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	plan, err := insertPlan(tx, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{
		"framework_notes": req.FrameworkNotes,
		"strands":         req.Strands,
	})
	inst, err := workflow.Start(tx, workflow.Curriculum, plan.ID, data, common.Actor(c),
		"Framework reviewed: "+req.Title)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit plan"))
	}
	return common.Created(c, fiber.Map{"plan": plan, "workflow": inst}, "Curriculum plan started")
}

type outcomesRequest struct {
	Outcomes []struct {
		Strand     string `json:"strand" validate:"required"`
		Outcome    string `json:"outcome" validate:"required"`
		Competency string `json:"competency,omitempty"`
	} `json:"outcomes" validate:"required,min=1,dive"`
}

// MapOutcomes records the learning outcomes against the framework strands.
func MapOutcomes(c *fiber.Ctx, db *sql.DB) error {
	var req outcomesRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	inst, err := workflow.GetByReference(db, models.WorkflowCurriculum, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"outcomes": req.Outcomes, "outcome_count": len(req.Outcomes)})
	inst, err = workflow.Advance(tx, workflow.Curriculum, inst.ID, workflow.StageFrameworkReview,
		data, common.Actor(c), "Learning outcomes mapped")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit outcomes"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Learning outcomes mapped")
}

type schemeRequest struct {
	Outline string `json:"outline" validate:"required"`
}

// CreateScheme stores the scheme of work on the plan itself.
func CreateScheme(c *fiber.Ctx, db *sql.DB) error {
	var req schemeRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	plan, err := getPlan(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowCurriculum, plan.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	if err := updateOutline(tx, plan.ID, req.Outline); err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"scheme_created_at": time.Now().Format(time.RFC3339)})
	inst, err = workflow.Advance(tx, workflow.Curriculum, inst.ID, workflow.StageOutcomeMapping,
		data, common.Actor(c), "Scheme of work created")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit scheme"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Scheme of work created")
}

type approvalRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ApprovePlan closes the plan's workflow.
func ApprovePlan(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		req = approvalRequest{}
	}

	inst, err := workflow.GetByReference(db, models.WorkflowCurriculum, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"approved_at": time.Now().Format(time.RFC3339)})
	inst, err = workflow.Complete(tx, workflow.Curriculum, inst.ID, workflow.StageSchemeCreation,
		data, common.Actor(c), "Curriculum plan approved: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit approval"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Curriculum plan approved")
}

// SendBackPlan returns the plan to outcome mapping for rework.
func SendBackPlan(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		req = approvalRequest{}
	}

	inst, err := workflow.GetByReference(db, models.WorkflowCurriculum, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	inst, err = workflow.SendBack(tx, workflow.Curriculum, inst.ID, workflow.StageSchemeCreation,
		common.Actor(c), "Plan sent back: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit send back"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Plan sent back for rework")
}
