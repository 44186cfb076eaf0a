package assessments

import (
	"database/sql"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/aggregation"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// ListAssessments returns assessments, optionally filtered by term or class.
func ListAssessments(c *fiber.Ctx, db *sql.DB) error {
	list, err := listAssessments(db, c.Query("term_id"), c.Query("class_id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, list, "")
}

// GetAssessment returns one assessment with its workflow state and history.
func GetAssessment(c *fiber.Ctx, db *sql.DB) error {
	a, err := getAssessment(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{
		"assessment": a,
		"workflow":   inst,
		"history":    history,
	}, "")
}

type planRequest struct {
	Title            string   `json:"title" validate:"required"`
	AssessmentType   string   `json:"assessment_type" validate:"required,oneof=CA SBA SA"`
	SubjectID        string   `json:"subject_id" validate:"required,uuid"`
	ClassID          string   `json:"class_id" validate:"required,uuid"`
	TermID           string   `json:"term_id" validate:"required,uuid"`
	MaxMarks         float64  `json:"max_marks" validate:"required,gt=0"`
	AssessmentDate   string   `json:"assessment_date,omitempty"`
	LearningOutcomes []string `json:"learning_outcomes,omitempty"`
	Competencies     []string `json:"competencies,omitempty"`
}

// PlanAssessment creates the assessment and opens its workflow.
func PlanAssessment(c *fiber.Ctx, db *sql.DB) error {
	var req planRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	a, err := insertAssessment(tx, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{
		"learning_outcomes": req.LearningOutcomes,
		"competencies":      req.Competencies,
	})
	inst, err := workflow.Start(tx, workflow.Assessment, a.ID, data, common.Actor(c), "Assessment planned: "+req.Title)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit assessment plan"))
	}
	return common.Created(c, fiber.Map{"assessment": a, "workflow": inst}, "Assessment planned")
}

type itemsRequest struct {
	Items []struct {
		Number  int     `json:"number" validate:"required,gt=0"`
		Text    string  `json:"text,omitempty"`
		Marks   float64 `json:"marks" validate:"required,gt=0"`
		Outcome string  `json:"outcome,omitempty"`
	} `json:"items" validate:"required,min=1,dive"`
}

// CreateItems records the assessment items and moves on from planning.
func CreateItems(c *fiber.Ctx, db *sql.DB) error {
	var req itemsRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	a, err := getAssessment(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	total := 0.0
	for _, item := range req.Items {
		total += item.Marks
	}
	if total > a.MaxMarks {
		return common.Fail(c, workflow.Validationf([]string{"items"},
			"item marks %.2f exceed assessment maximum %.2f", total, a.MaxMarks))
	}

	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"items": req.Items, "item_count": len(req.Items), "items_total": total})
	inst, err = workflow.Advance(tx, workflow.Assessment, inst.ID, workflow.StageAssessmentPlanning,
		data, common.Actor(c), "Assessment items created")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit items"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "item_count": len(req.Items)}, "Assessment items created")
}

type administerRequest struct {
	Date       string   `json:"date,omitempty"`
	Venue      string   `json:"venue,omitempty"`
	PresentIDs []string `json:"present_ids" validate:"required,min=1,dive,uuid"`
	AbsentIDs  []string `json:"absent_ids,omitempty" validate:"omitempty,dive,uuid"`
	Notes      string   `json:"notes,omitempty"`
}

// Administer records the sitting and moves on from item creation.
func Administer(c *fiber.Ctx, db *sql.DB) error {
	var req administerRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{
		"administration": fiber.Map{
			"date":         req.Date,
			"venue":        req.Venue,
			"present_ids":  req.PresentIDs,
			"absent_ids":   req.AbsentIDs,
			"notes":        req.Notes,
			"participants": len(req.PresentIDs),
		},
	})
	inst, err = workflow.Advance(tx, workflow.Assessment, inst.ID, workflow.StageItemCreation,
		data, common.Actor(c), "Assessment administered")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit administration"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Assessment administration recorded")
}

type resultsRequest struct {
	Results []struct {
		StudentID string  `json:"student_id" validate:"required,uuid"`
		Marks     float64 `json:"marks" validate:"gte=0"`
		Comment   *string `json:"comment,omitempty"`
	} `json:"results" validate:"required,min=1,dive"`
}

// RecordResults batch-saves marks while the workflow sits at the
// administration stage. Repeated batches overwrite earlier unverified rows;
// once the assessment is aggregated no further recording is allowed.
func RecordResults(c *fiber.Ctx, db *sql.DB) error {
	var req resultsRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	a, err := getAssessment(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	for _, r := range req.Results {
		if r.Marks > a.MaxMarks {
			return common.Fail(c, workflow.Validationf([]string{"marks"},
				"marks %.2f exceed assessment maximum %.2f", r.Marks, a.MaxMarks))
		}
	}

	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	if inst.CurrentStage != workflow.StageAdministration {
		return common.Fail(c, workflow.InvalidStatef(
			"results can only be recorded at the %s stage, instance is at %s",
			workflow.StageAdministration, inst.CurrentStage))
	}
	if isAggregated(inst.Data, a.ID) {
		return common.Fail(c, workflow.Conflictf(
			"assessment %s already aggregated, marks can no longer change", a.ID))
	}

	count, err := batchUpsertResults(db, a.ID, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"saved": count}, "Results recorded")
}

// VerifyAndGrade verifies the recorded marks, folds them into the term
// accumulators and advances to marking and grading. The aggregated marker
// written into the instance data inside the same transaction makes a second
// verification fail instead of double-counting.
func VerifyAndGrade(c *fiber.Ctx, db *sql.DB, resolver *grading.Resolver) error {
	a, err := getAssessment(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	if isAggregated(inst.Data, a.ID) {
		return common.Fail(c, workflow.Conflictf("assessment %s already aggregated", a.ID))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	verified, err := markResultsVerified(tx, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	if verified == 0 {
		return common.Fail(c, workflow.Validationf([]string{"results"},
			"no recorded results to verify for assessment %s", a.ID))
	}

	touched, err := aggregation.AggregateAssessment(tx, a.ID, aggregation.DefaultWeights, resolver)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{
		"aggregated_assessments": appendAggregated(inst.Data, a.ID),
		"verified_results":       verified,
		"score_rows":             touched,
	})
	inst, err = workflow.Advance(tx, workflow.Assessment, inst.ID, workflow.StageAdministration,
		data, common.Actor(c), "Marks verified and aggregated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit verification"))
	}
	return common.OK(c, fiber.Map{
		"workflow":         inst,
		"verified_results": verified,
		"score_rows":       touched,
	}, "Marks verified and aggregated")
}

// AnalyzeResults computes the final statistics and closes the workflow.
func AnalyzeResults(c *fiber.Ctx, db *sql.DB, resolver *grading.Resolver) error {
	a, err := getAssessment(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	inst, err := workflow.GetByReference(db, models.WorkflowAssessment, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}

	stats, err := resultStats(db, a.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	distribution, err := gradeDistribution(db, a, resolver)
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"statistics": stats, "grade_distribution": distribution})
	inst, err = workflow.Complete(tx, workflow.Assessment, inst.ID, workflow.StageMarkingGrading,
		data, common.Actor(c), "Assessment analysis completed")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit analysis"))
	}
	return common.OK(c, fiber.Map{
		"workflow":           inst,
		"statistics":         stats,
		"grade_distribution": distribution,
	}, "Assessment completed")
}

// ResultStatistics exposes the mark statistics without touching the workflow.
func ResultStatistics(c *fiber.Ctx, db *sql.DB) error {
	stats, err := resultStats(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, stats, "")
}
