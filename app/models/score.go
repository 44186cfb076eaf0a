package models

import "time"

// TermSubjectScore accumulates a student's formative and summative marks
// for one subject over a term. Totals only grow; each aggregation run adds
// its deltas and recomputes the percentages and the weighted overall from
// the new totals.
type TermSubjectScore struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID      string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID         string    `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SubjectID      string    `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FormativeTotal float64   `json:"formative_total" gorm:"type:decimal(9,2);default:0"`
	FormativeMax   float64   `json:"formative_max" gorm:"type:decimal(9,2);default:0"`
	SummativeTotal float64   `json:"summative_total" gorm:"type:decimal(9,2);default:0"`
	SummativeMax   float64   `json:"summative_max" gorm:"type:decimal(9,2);default:0"`
	FormativePct   float64   `json:"formative_pct" gorm:"type:decimal(5,2);default:0"`
	SummativePct   float64   `json:"summative_pct" gorm:"type:decimal(5,2);default:0"`
	OverallScore   float64   `json:"overall_score" gorm:"type:decimal(5,2);default:0"`
	OverallGrade   string    `json:"overall_grade"`
	OverallPoints  float64   `json:"overall_points" gorm:"type:decimal(4,2);default:0"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
