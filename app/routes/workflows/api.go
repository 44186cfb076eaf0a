package workflows

import (
	"database/sql"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// ListWorkflows returns instances filtered by type and status.
func ListWorkflows(c *fiber.Ctx, db *sql.DB) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	wfType := models.WorkflowType(c.Query("type"))
	if wfType != "" {
		if _, ok := workflow.Definitions[wfType]; !ok {
			return common.BadRequest(c, "unknown workflow type: "+string(wfType))
		}
	}

	instances, err := workflow.ListInstances(db, wfType, models.WorkflowStatus(c.Query("status")), limit)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, instances, "")
}

// ListWorkflowTypes returns every registered workflow with its stage sequence.
func ListWorkflowTypes(c *fiber.Ctx) error {
	types := []fiber.Map{}
	for code, def := range workflow.Definitions {
		types = append(types, fiber.Map{
			"code":        code,
			"stages":      def.Stages,
			"stage_count": len(def.Stages),
		})
	}
	return common.OK(c, types, "")
}

// GetWorkflow returns one instance, its transition history and, when the
// instance is still running, the stage that follows the current one.
func GetWorkflow(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	payload := fiber.Map{"workflow": inst, "history": history}
	if def, ok := workflow.Definitions[inst.WorkflowType]; ok && inst.Status == models.WorkflowInProgress {
		if next, ok := def.Next(inst.CurrentStage); ok {
			payload["next_stage"] = next
		} else {
			payload["next_stage"] = workflow.StageCompleted
		}
	}
	return common.OK(c, payload, "")
}

// ListStaleWorkflows surfaces in-progress instances with no transition for
// the given number of days. Defaults to 30.
func ListStaleWorkflows(c *fiber.Ctx, db *sql.DB) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 {
		return common.BadRequest(c, "days must be a positive integer")
	}

	instances, err := workflow.StaleInProgress(db, days)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, instances, "")
}
