package models

import "time"

// CurriculumPlan is a scheme of work for one subject in one class and term.
type CurriculumPlan struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	SubjectID string    `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID   string    `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID    string    `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Title     string    `json:"title" gorm:"not null" validate:"required"`
	Outline   *string   `json:"outline,omitempty"`
	CreatedBy *string   `json:"created_by,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
