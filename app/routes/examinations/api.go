package examinations

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/aggregation"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/services"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// ListCycles returns examination cycle instances, newest first.
func ListCycles(c *fiber.Ctx, db *sql.DB) error {
	instances, err := workflow.ListInstances(db, models.WorkflowExamination,
		models.WorkflowStatus(c.Query("status")), c.QueryInt("limit"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, instances, "")
}

// GetCycle returns one cycle with its full stage history.
func GetCycle(c *fiber.Ctx, db *sql.DB) error {
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

type planCycleRequest struct {
	Title              string   `json:"title" validate:"required"`
	ClassificationCode string   `json:"classification_code" validate:"required,oneof=CA SBA SA"`
	TermID             string   `json:"term_id" validate:"required,uuid"`
	AcademicYearID     string   `json:"academic_year_id" validate:"required,uuid"`
	StartDate          string   `json:"start_date" validate:"required"`
	EndDate            string   `json:"end_date" validate:"required"`
	FormativeWeight    *float64 `json:"formative_weight,omitempty"`
	SummativeWeight    *float64 `json:"summative_weight,omitempty"`
}

// PlanCycle opens an examination cycle for a term. Weight overrides apply
// to this cycle only and must sum to 1.0.
func PlanCycle(c *fiber.Ctx, db *sql.DB) error {
	var req planCycleRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	weights := aggregation.DefaultWeights
	if req.FormativeWeight != nil || req.SummativeWeight != nil {
		if req.FormativeWeight == nil || req.SummativeWeight == nil {
			return common.Fail(c, workflow.Validationf(
				[]string{"formative_weight", "summative_weight"},
				"both weights must be provided together"))
		}
		weights = aggregation.Weights{Formative: *req.FormativeWeight, Summative: *req.SummativeWeight}
	}
	if err := weights.Validate(); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{
		"title":               req.Title,
		"classification_code": req.ClassificationCode,
		"term_id":             req.TermID,
		"academic_year_id":    req.AcademicYearID,
		"start_date":          req.StartDate,
		"end_date":            req.EndDate,
		"formative_weight":    weights.Formative,
		"summative_weight":    weights.Summative,
		"planned_at":          time.Now().Format(time.RFC3339),
	})
	// Cycles group by term, so the term is the instance reference
	inst, err := workflow.Start(tx, workflow.Examination, req.TermID, data, common.Actor(c),
		"Examination cycle planned: "+req.Title)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit cycle plan"))
	}
	return common.Created(c, fiber.Map{"workflow": inst}, "Examination cycle planned")
}

type scheduleRequest struct {
	Entries []struct {
		SubjectID string `json:"subject_id" validate:"required,uuid"`
		ClassID   string `json:"class_id" validate:"required,uuid"`
		Date      string `json:"date" validate:"required"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
		Venue     string `json:"venue,omitempty"`
	} `json:"entries" validate:"required,min=1,dive"`
}

// CreateSchedule records the exam timetable and leaves planning.
func CreateSchedule(c *fiber.Ctx, db *sql.DB) error {
	var req scheduleRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	data, _ := json.Marshal(fiber.Map{"schedule": req.Entries, "schedule_count": len(req.Entries)})
	return advanceCycle(c, db, workflow.StageExamPlanning, data, "Examination schedule created")
}

// SubmitPaper attaches a question paper to the cycle. The upload is stored
// on disk and only its path travels in the workflow data.
func SubmitPaper(c *fiber.Ctx, db *sql.DB, uploads *services.UploadStore) error {
	subjectID := c.FormValue("subject_id")
	if subjectID == "" {
		return common.Fail(c, workflow.Validationf([]string{"subject_id"}, "subject_id is required"))
	}

	file, err := c.FormFile("paper")
	if err != nil {
		return common.Fail(c, workflow.Validationf([]string{"paper"}, "question paper file is required"))
	}
	path, err := uploads.SavePaper(c, file)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{
		"paper": fiber.Map{
			"subject_id":   subjectID,
			"path":         path,
			"submitted_at": time.Now().Format(time.RFC3339),
		},
	})
	return advanceCycle(c, db, workflow.StageScheduleCreation, data, "Question paper submitted")
}

type logisticsRequest struct {
	Rooms        []string `json:"rooms" validate:"required,min=1"`
	Invigilators []string `json:"invigilators" validate:"required,min=1,dive,uuid"`
	Materials    string   `json:"materials,omitempty"`
}

// PrepareLogistics records rooms and invigilation.
func PrepareLogistics(c *fiber.Ctx, db *sql.DB) error {
	var req logisticsRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	data, _ := json.Marshal(fiber.Map{"logistics": req})
	return advanceCycle(c, db, workflow.StagePaperSubmission, data, "Exam logistics prepared")
}

type conductRequest struct {
	ConductedOn   string   `json:"conducted_on" validate:"required"`
	AbsentIDs     []string `json:"absent_ids,omitempty" validate:"omitempty,dive,uuid"`
	IncidentNotes string   `json:"incident_notes,omitempty"`
}

// ConductExams records the administration of the exams.
func ConductExams(c *fiber.Ctx, db *sql.DB) error {
	var req conductRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	data, _ := json.Marshal(fiber.Map{"administration": req})
	return advanceCycle(c, db, workflow.StageExamLogistics, data, "Examinations conducted")
}

type markersRequest struct {
	Assignments []struct {
		SubjectID string `json:"subject_id" validate:"required,uuid"`
		MarkerID  string `json:"marker_id" validate:"required,uuid"`
	} `json:"assignments" validate:"required,min=1,dive"`
}

// AssignMarkers distributes marking duties.
func AssignMarkers(c *fiber.Ctx, db *sql.DB) error {
	var req markersRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	data, _ := json.Marshal(fiber.Map{
		"marker_assignments": req.Assignments,
		"assignments_count":  len(req.Assignments),
	})
	return advanceCycle(c, db, workflow.StageExamAdministration, data, "Markers assigned")
}

type marksRequest struct {
	AssessmentIDs []string `json:"assessment_ids" validate:"required,min=1,dive,uuid"`
}

// RecordMarks links the cycle to the assessments whose marks were captured.
// The marks themselves are recorded through the assessment endpoints.
func RecordMarks(c *fiber.Ctx, db *sql.DB) error {
	var req marksRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	data, _ := json.Marshal(fiber.Map{"assessment_ids": req.AssessmentIDs})
	return advanceCycle(c, db, workflow.StageMarkingAssignment, data, "Marks recorded")
}

// VerifyMarks verifies every result of the cycle's assessments.
func VerifyMarks(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	assessmentIDs := cycleAssessmentIDs(inst.Data)
	if len(assessmentIDs) == 0 {
		return common.Fail(c, workflow.Validationf([]string{"assessment_ids"},
			"no assessments linked to this cycle"))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	verified, err := verifyAssessmentResults(tx, assessmentIDs)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"verified_results": verified})
	inst, err = workflow.Advance(tx, workflow.Examination, inst.ID, workflow.StageMarksRecording,
		data, common.Actor(c), "Marks verified")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit verification"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "verified_results": verified}, "Marks verified")
}

type moderationRequest struct {
	Adjustments []struct {
		AssessmentID string  `json:"assessment_id" validate:"required,uuid"`
		StudentID    string  `json:"student_id" validate:"required,uuid"`
		Marks        float64 `json:"marks" validate:"gte=0"`
		Reason       string  `json:"reason" validate:"required"`
	} `json:"adjustments,omitempty" validate:"omitempty,dive"`
	Notes string `json:"notes,omitempty"`
}

// ModerateMarks applies moderation adjustments before compilation. Once an
// assessment is aggregated its marks are frozen, so moderation against a
// compiled assessment fails with a conflict.
func ModerateMarks(c *fiber.Ctx, db *sql.DB) error {
	var req moderationRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	aggregated := aggregatedAssessmentIDs(inst.Data)
	for _, adj := range req.Adjustments {
		if aggregated[adj.AssessmentID] {
			return common.Fail(c, workflow.Conflictf(
				"assessment %s already aggregated, marks can no longer change", adj.AssessmentID))
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	adjusted, err := applyModeration(tx, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"moderation": fiber.Map{
		"adjusted": adjusted,
		"notes":    req.Notes,
	}})
	inst, err = workflow.Advance(tx, workflow.Examination, inst.ID, workflow.StageMarksVerification,
		data, common.Actor(c), "Marks moderated")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit moderation"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "adjusted": adjusted}, "Marks moderated")
}

// CompileResults aggregates every linked assessment into the term
// accumulators under the weights planned for the cycle. Assessments
// already aggregated in an earlier run are skipped, so a retried
// compilation cannot double-count.
func CompileResults(c *fiber.Ctx, db *sql.DB, resolver *grading.Resolver) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	weights := cycleWeights(inst.Data)
	assessmentIDs := cycleAssessmentIDs(inst.Data)
	if len(assessmentIDs) == 0 {
		return common.Fail(c, workflow.Validationf([]string{"assessment_ids"},
			"no assessments linked to this cycle"))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	aggregated := aggregatedAssessmentIDs(inst.Data)
	done := []string{}
	for id := range aggregated {
		done = append(done, id)
	}
	rowsTouched := 0
	newlyAggregated := 0
	for _, id := range assessmentIDs {
		if aggregated[id] {
			continue
		}
		n, err := aggregation.AggregateAssessment(tx, id, weights, resolver)
		if err != nil {
			return common.Fail(c, err)
		}
		rowsTouched += n
		newlyAggregated++
		done = append(done, id)
	}
	if newlyAggregated == 0 {
		return common.Fail(c, workflow.Conflictf("all linked assessments are already aggregated"))
	}

	data, _ := json.Marshal(fiber.Map{
		"aggregated_assessments": done,
		"compiled_at":            time.Now().Format(time.RFC3339),
		"score_rows":             rowsTouched,
	})
	inst, err = workflow.Advance(tx, workflow.Examination, inst.ID, workflow.StageMarksModeration,
		data, common.Actor(c), "Results compiled")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit compilation"))
	}
	return common.OK(c, fiber.Map{
		"workflow":   inst,
		"aggregated": newlyAggregated,
		"score_rows": rowsTouched,
	}, "Results compiled")
}

type approvalRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ApproveResults closes the cycle.
func ApproveResults(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil && err != fiber.ErrUnprocessableEntity {
		req = approvalRequest{}
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"approved_at": time.Now().Format(time.RFC3339)})
	inst, err := workflow.Complete(tx, workflow.Examination, c.Params("id"),
		workflow.StageResultsCompilation, data, common.Actor(c), "Results approved: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit approval"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Results approved, cycle completed")
}

// RejectResults sends the compiled results back for another moderation pass.
func RejectResults(c *fiber.Ctx, db *sql.DB) error {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil && err != fiber.ErrUnprocessableEntity {
		req = approvalRequest{}
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	inst, err := workflow.SendBack(tx, workflow.Examination, c.Params("id"),
		workflow.StageResultsCompilation, common.Actor(c), "Results rejected: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit rejection"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Results sent back for moderation")
}

type competencyRequest struct {
	StudentID  string  `json:"student_id" validate:"required,uuid"`
	SubjectID  string  `json:"subject_id" validate:"required,uuid"`
	TermID     string  `json:"term_id" validate:"required,uuid"`
	Competency string  `json:"competency" validate:"required"`
	Level      string  `json:"level" validate:"required,oneof=EE ME AE BE"`
	Evidence   *string `json:"evidence,omitempty"`
}

// RecordCompetency saves observed competency evidence for a learner.
func RecordCompetency(c *fiber.Ctx, db *sql.DB) error {
	var req competencyRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	lc, err := insertCompetency(db, &req, common.Actor(c))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.Created(c, lc, "Competency recorded")
}

// StudentCompetencies lists a learner's competency evidence for a term.
func StudentCompetencies(c *fiber.Ctx, db *sql.DB) error {
	list, err := listCompetencies(db, c.Params("id"), c.Query("term_id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, list, "")
}

// advanceCycle is the shared stage-step helper for the thin stages that
// only merge payload data.
func advanceCycle(c *fiber.Ctx, db *sql.DB, expectedStage string, data json.RawMessage, note string) error {
	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	inst, err := workflow.Advance(tx, workflow.Examination, c.Params("id"), expectedStage,
		data, common.Actor(c), note)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit stage transition"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, note)
}
