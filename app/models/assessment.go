package models

import "time"

// AssessmentKind distinguishes formative from summative work.
type AssessmentKind string

const (
	ContinuousAssessment AssessmentKind = "CA"  // formative
	SchoolBased          AssessmentKind = "SBA" // summative
	SummativeAssessment  AssessmentKind = "SA"  // summative
)

// IsFormative reports whether the kind counts toward the formative total.
func (k AssessmentKind) IsFormative() bool {
	return k == ContinuousAssessment
}

// Valid reports whether the kind is one of the known classifications.
func (k AssessmentKind) Valid() bool {
	switch k {
	case ContinuousAssessment, SchoolBased, SummativeAssessment:
		return true
	}
	return false
}

// Assessment is a single piece of assessed work for one subject in one class.
type Assessment struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Title          string         `json:"title" gorm:"not null" validate:"required"`
	AssessmentType AssessmentKind `json:"assessment_type" gorm:"not null" validate:"required"`
	SubjectID      string         `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID        string         `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID         string         `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	MaxMarks       float64        `json:"max_marks" gorm:"not null;type:decimal(7,2)" validate:"gt=0"`
	AssessmentDate *CustomTime    `json:"assessment_date,omitempty"`
	PaperPath      *string        `json:"paper_path,omitempty"`
	CreatedBy      *string        `json:"created_by,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt      *time.Time     `json:"deleted_at,omitempty" gorm:"index"`
}

// AssessmentResult stores one student's marks for an assessment.
type AssessmentResult struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AssessmentID string    `json:"assessment_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID    string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Marks        float64   `json:"marks" gorm:"not null;type:decimal(7,2)" validate:"gte=0"`
	Verified     bool      `json:"verified" gorm:"default:false"`
	Comment      *string   `json:"comment,omitempty"`
	RecordedBy   *string   `json:"recorded_by,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
