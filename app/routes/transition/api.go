package transition

import (
	"database/sql"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// GetTransition returns a transition instance with its history.
func GetTransition(c *fiber.Ctx, db *sql.DB) error {
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

type prepareRequest struct {
	FromYearID   string `json:"from_year_id" validate:"required,uuid"`
	NewYearName  string `json:"new_year_name" validate:"required"`
	NewYearStart string `json:"new_year_start" validate:"required"`
	NewYearEnd   string `json:"new_year_end" validate:"required"`
	Terms        []struct {
		Name      string `json:"name" validate:"required"`
		StartDate string `json:"start_date" validate:"required"`
		EndDate   string `json:"end_date" validate:"required"`
	} `json:"terms" validate:"required,min=1,dive"`
}

// PrepareCalendar opens the transition with the planned calendar for the
// incoming year. The year itself is only created at the setup stage, after
// archival and promotions have run.
func PrepareCalendar(c *fiber.Ctx, db *sql.DB) error {
	var req prepareRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{
		"from_year_id":   req.FromYearID,
		"new_year_name":  req.NewYearName,
		"new_year_start": req.NewYearStart,
		"new_year_end":   req.NewYearEnd,
		"planned_terms":  req.Terms,
	})
	inst, err := workflow.Start(tx, workflow.YearTransition, req.FromYearID, data, common.Actor(c),
		"Year transition calendar prepared: "+req.NewYearName)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit transition plan"))
	}
	return common.Created(c, fiber.Map{"workflow": inst}, "Year transition started")
}

// ArchiveYear snapshots the closing year and retires it as current.
func ArchiveYear(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	fromYearID := dataString(inst.Data, "from_year_id")

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	snapshot, err := archiveSnapshot(tx, fromYearID)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"archive": snapshot})
	inst, err = workflow.Advance(tx, workflow.YearTransition, inst.ID, workflow.StagePrepareCalendar,
		data, common.Actor(c), "Closing year archived")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit archive"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "archive": snapshot}, "Closing year archived")
}

type linkPromotionsRequest struct {
	BatchID string `json:"batch_id" validate:"required,uuid"`
}

// LinkPromotions ties an executed promotion batch to the transition.
func LinkPromotions(c *fiber.Ctx, db *sql.DB) error {
	var req linkPromotionsRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	status, err := batchStatus(db, req.BatchID)
	if err != nil {
		return common.Fail(c, err)
	}
	if status != models.BatchExecuted {
		return common.Fail(c, workflow.InvalidStatef(
			"promotion batch %s must be executed before the year can transition, it is %s",
			req.BatchID, status))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"promotion_batch_id": req.BatchID})
	inst, err := workflow.Advance(tx, workflow.YearTransition, c.Params("id"), workflow.StageArchiveYear,
		data, common.Actor(c), "Promotion batch linked")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit promotion link"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Promotions linked to transition")
}

// SetupNewYear creates the new academic year with its terms and makes it
// current.
func SetupNewYear(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	year, err := createNewYear(tx, inst.Data)
	if err != nil {
		return common.Fail(c, err)
	}

	termIDs := make([]string, len(year.Terms))
	for i, term := range year.Terms {
		termIDs[i] = term.ID
	}
	data, _ := json.Marshal(fiber.Map{"new_year_id": year.ID, "new_term_ids": termIDs})
	inst, err = workflow.Advance(tx, workflow.YearTransition, inst.ID, workflow.StageExecutePromotions,
		data, common.Actor(c), "New academic year created")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit new year"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "new_year": year}, "New academic year created")
}

// MigrateBaselines snapshots each student's closing-year performance into
// their term reports so the new year starts with a baseline on record.
func MigrateBaselines(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	fromYearID := dataString(inst.Data, "from_year_id")

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	migrated, err := migrateBaselines(tx, fromYearID)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"baselines_migrated": migrated})
	inst, err = workflow.Advance(tx, workflow.YearTransition, inst.ID, workflow.StageSetupNewYear,
		data, common.Actor(c), "Performance baselines migrated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit baselines"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "baselines_migrated": migrated},
		"Performance baselines migrated")
}

// ValidateReadiness runs the readiness checklist and closes the transition
// when every check passes.
func ValidateReadiness(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	newYearID := dataString(inst.Data, "new_year_id")
	if newYearID == "" {
		return common.Fail(c, workflow.InvalidStatef("new academic year has not been set up yet"))
	}

	checks, failed, err := readinessChecks(db, newYearID)
	if err != nil {
		return common.Fail(c, err)
	}
	if len(failed) > 0 {
		return common.Fail(c, workflow.Validationf(failed, "readiness checks failed"))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"readiness": checks})
	inst, err = workflow.Complete(tx, workflow.YearTransition, inst.ID, workflow.StageMigrateBaselines,
		data, common.Actor(c), "Transition validated and completed")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit readiness"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "readiness": checks}, "Year transition completed")
}

func dataString(data json.RawMessage, key string) string {
	v, ok := workflow.DataKey(data, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
