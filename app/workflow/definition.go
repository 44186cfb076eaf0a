package workflow

import "github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"

// StageCompleted is the terminal stage marker set when an instance finishes.
const StageCompleted = "completed"

// Definition fixes the ordered stage sequence for one workflow type.
type Definition struct {
	Code   models.WorkflowType
	Stages []string
}

// Examination cycle stages.
const (
	StageExamPlanning       = "exam_planning"
	StageScheduleCreation   = "schedule_creation"
	StagePaperSubmission    = "question_paper_submission"
	StageExamLogistics      = "exam_logistics"
	StageExamAdministration = "exam_administration"
	StageMarkingAssignment  = "marking_assignment"
	StageMarksRecording     = "marks_recording"
	StageMarksVerification  = "marks_verification"
	StageMarksModeration    = "marks_moderation"
	StageResultsCompilation = "results_compilation"
	StageResultsApproval    = "results_approval"
)

// Assessment stages.
const (
	StageAssessmentPlanning = "assessment_planning"
	StageItemCreation       = "item_creation"
	StageAdministration     = "administration"
	StageMarkingGrading     = "marking_grading"
	StageResultsAnalysis    = "results_analysis"
)

// Promotion stages.
const (
	StageDefineCriteria      = "define_criteria"
	StageIdentifyCandidates  = "identify_candidates"
	StageValidateEligibility = "validate_eligibility"
	StageExecutePromotion    = "execute_promotion"
	StageGenerateReports     = "generate_reports"
)

// Year transition stages.
const (
	StagePrepareCalendar   = "prepare_calendar"
	StageArchiveYear       = "archive_year"
	StageExecutePromotions = "execute_promotions"
	StageSetupNewYear      = "setup_new_year"
	StageMigrateBaselines  = "migrate_baselines"
	StageValidateReadiness = "validate_readiness"
)

// Report generation stages.
const (
	StageDefineScope    = "define_scope"
	StageCompileData    = "compile_data"
	StageGenerate       = "generate_reports_output"
	StageReviewApproval = "review_approval"
	StageDistribute     = "distribute"
)

// Library acquisition stages.
const (
	StageAcquisitionRequest   = "acquisition_request"
	StageAcquisitionReview    = "acquisition_review"
	StageCataloging           = "cataloging"
	StageDistributionTracking = "distribution_tracking"
)

// Curriculum planning stages.
const (
	StageFrameworkReview  = "framework_review"
	StageOutcomeMapping   = "outcome_mapping"
	StageSchemeCreation   = "scheme_creation"
	StageCurriculumReview = "curriculum_review"
)

var (
	Examination = Definition{
		Code: models.WorkflowExamination,
		Stages: []string{
			StageExamPlanning,
			StageScheduleCreation,
			StagePaperSubmission,
			StageExamLogistics,
			StageExamAdministration,
			StageMarkingAssignment,
			StageMarksRecording,
			StageMarksVerification,
			StageMarksModeration,
			StageResultsCompilation,
			StageResultsApproval,
		},
	}

	Assessment = Definition{
		Code: models.WorkflowAssessment,
		Stages: []string{
			StageAssessmentPlanning,
			StageItemCreation,
			StageAdministration,
			StageMarkingGrading,
			StageResultsAnalysis,
		},
	}

	Promotion = Definition{
		Code: models.WorkflowPromotion,
		Stages: []string{
			StageDefineCriteria,
			StageIdentifyCandidates,
			StageValidateEligibility,
			StageExecutePromotion,
			StageGenerateReports,
		},
	}

	YearTransition = Definition{
		Code: models.WorkflowYearTransition,
		Stages: []string{
			StagePrepareCalendar,
			StageArchiveYear,
			StageExecutePromotions,
			StageSetupNewYear,
			StageMigrateBaselines,
			StageValidateReadiness,
		},
	}

	Report = Definition{
		Code: models.WorkflowReport,
		Stages: []string{
			StageDefineScope,
			StageCompileData,
			StageGenerate,
			StageReviewApproval,
			StageDistribute,
		},
	}

	Library = Definition{
		Code: models.WorkflowLibrary,
		Stages: []string{
			StageAcquisitionRequest,
			StageAcquisitionReview,
			StageCataloging,
			StageDistributionTracking,
		},
	}

	Curriculum = Definition{
		Code: models.WorkflowCurriculum,
		Stages: []string{
			StageFrameworkReview,
			StageOutcomeMapping,
			StageSchemeCreation,
			StageCurriculumReview,
		},
	}
)

// Definitions indexes every workflow definition by type.
var Definitions = map[models.WorkflowType]Definition{
	models.WorkflowExamination:    Examination,
	models.WorkflowAssessment:     Assessment,
	models.WorkflowPromotion:      Promotion,
	models.WorkflowYearTransition: YearTransition,
	models.WorkflowReport:         Report,
	models.WorkflowLibrary:        Library,
	models.WorkflowCurriculum:     Curriculum,
}

// First returns the entry stage of the definition.
func (d Definition) First() string {
	return d.Stages[0]
}

// Last returns the final stage of the definition.
func (d Definition) Last() string {
	return d.Stages[len(d.Stages)-1]
}

// IndexOf returns the position of stage in the sequence, or -1.
func (d Definition) IndexOf(stage string) int {
	for i, s := range d.Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Next returns the stage that follows the given one. ok is false when the
// stage is unknown or already the last in the sequence.
func (d Definition) Next(stage string) (next string, ok bool) {
	i := d.IndexOf(stage)
	if i < 0 || i+1 >= len(d.Stages) {
		return "", false
	}
	return d.Stages[i+1], true
}

// Previous returns the stage before the given one. ok is false when the
// stage is unknown or the first in the sequence.
func (d Definition) Previous(stage string) (prev string, ok bool) {
	i := d.IndexOf(stage)
	if i <= 0 {
		return "", false
	}
	return d.Stages[i-1], true
}
