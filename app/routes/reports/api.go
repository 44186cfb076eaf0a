package reports

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// GetRun returns a report generation run with its history.
func GetRun(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"workflow": inst, "history": history}, "")
}

// StudentReport returns one student's report card for a term.
func StudentReport(c *fiber.Ctx, db *sql.DB) error {
	termID := c.Query("term_id")
	if termID == "" {
		return common.BadRequest(c, "term_id is required")
	}
	report, scores, err := studentReport(db, c.Params("id"), termID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"report": report, "subjects": scores}, "")
}

type scopeRequest struct {
	TermID   string   `json:"term_id" validate:"required,uuid"`
	ClassIDs []string `json:"class_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// DefineScope opens a report run for a term, optionally narrowed to
// specific classes.
func DefineScope(c *fiber.Ctx, db *sql.DB) error {
	var req scopeRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"term_id": req.TermID, "class_ids": req.ClassIDs})
	inst, err := workflow.Start(tx, workflow.Report, req.TermID, data, common.Actor(c),
		"Report scope defined")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit report scope"))
	}
	return common.Created(c, fiber.Map{"workflow": inst}, "Report run started")
}

// CompileData builds the term report rows from the score accumulators,
// resolving each student's overall grade through the grading scale.
func CompileData(c *fiber.Ctx, db *sql.DB, resolver *grading.Resolver) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	termID := dataString(inst.Data, "term_id")

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	compiled, err := compileTermReports(tx, termID, classScope(inst.Data), resolver)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"compiled_reports": compiled, "compiled_at": time.Now().Format(time.RFC3339)})
	inst, err = workflow.Advance(tx, workflow.Report, inst.ID, workflow.StageDefineScope,
		data, common.Actor(c), "Report data compiled")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit compilation"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "compiled_reports": compiled}, "Report data compiled")
}

type remarksRequest struct {
	Remarks []struct {
		StudentID          string  `json:"student_id" validate:"required,uuid"`
		ClassTeacherRemark *string `json:"class_teacher_remark,omitempty"`
		HeadTeacherRemark  *string `json:"head_teacher_remark,omitempty"`
	} `json:"remarks,omitempty" validate:"omitempty,dive"`
}

// GenerateReports attaches remarks to the compiled reports and marks the
// run ready for review.
func GenerateReports(c *fiber.Ctx, db *sql.DB) error {
	var req remarksRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	termID := dataString(inst.Data, "term_id")

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	updated, err := attachRemarks(tx, termID, &req)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"remarks_added": updated})
	inst, err = workflow.Advance(tx, workflow.Report, inst.ID, workflow.StageCompileData,
		data, common.Actor(c), "Reports generated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit reports"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "remarks_added": updated}, "Reports generated")
}

type approvalRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ApproveReports passes the generated reports through review.
func ApproveReports(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		req = approvalRequest{}
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"approved_at": time.Now().Format(time.RFC3339)})
	inst, err := workflow.Advance(tx, workflow.Report, c.Params("id"), workflow.StageGenerate,
		data, common.Actor(c), "Reports approved: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit approval"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Reports approved")
}

// SendBackReports returns the run to generation for corrections.
func SendBackReports(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		req = approvalRequest{}
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	inst, err := workflow.SendBack(tx, workflow.Report, c.Params("id"), workflow.StageReviewApproval,
		common.Actor(c), "Reports sent back: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit send back"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Reports sent back for corrections")
}

// DistributeReports publishes the approved reports and closes the run.
func DistributeReports(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	termID := dataString(inst.Data, "term_id")

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	published, err := publishReports(tx, termID)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"published": published})
	inst, err = workflow.Complete(tx, workflow.Report, inst.ID, workflow.StageReviewApproval,
		data, common.Actor(c), "Reports distributed")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit distribution"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "published": published}, "Reports distributed")
}

func dataString(data json.RawMessage, key string) string {
	v, ok := workflow.DataKey(data, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func classScope(data json.RawMessage) []string {
	v, ok := workflow.DataKey(data, "class_ids")
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
