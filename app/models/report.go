package models

import "time"

// TermReport is the assembled end-of-term report card for one student.
type TermReport struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID          string     `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID             string     `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	OverallAverage     *float64   `json:"overall_average,omitempty" gorm:"type:decimal(5,2)"`
	OverallGrade       *string    `json:"overall_grade,omitempty"`
	ClassTeacherRemark *string    `json:"class_teacher_remark,omitempty"`
	HeadTeacherRemark  *string    `json:"head_teacher_remark,omitempty"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// LearnerCompetency is evidence of a competency demonstrated by a student.
type LearnerCompetency struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID  string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SubjectID  string    `json:"subject_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TermID     string    `json:"term_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Competency string    `json:"competency" gorm:"not null" validate:"required"`
	Level      string    `json:"level" gorm:"not null" validate:"required"`
	Evidence   *string   `json:"evidence,omitempty"`
	RecordedBy *string   `json:"recorded_by,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
