package models

import "time"

// PromotionDecision is the outcome recorded for one student in a batch.
type PromotionDecision string

const (
	DecisionApproved PromotionDecision = "approved"
	DecisionRetained PromotionDecision = "retained"
)

// BatchStatus is the lifecycle state of a promotion batch.
type BatchStatus string

const (
	BatchDraft     BatchStatus = "draft"
	BatchProcessed BatchStatus = "processed"
	BatchApproved  BatchStatus = "approved"
	BatchExecuted  BatchStatus = "executed"
)

// PromotionBatch holds the thresholds for one end-of-year promotion run.
type PromotionBatch struct {
	ID             string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AcademicYearID string        `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	MinAverage     float64       `json:"min_average" gorm:"type:decimal(5,2);default:50" validate:"gte=0,lte=100"`
	MinAttendance  float64       `json:"min_attendance" gorm:"type:decimal(5,2);default:75" validate:"gte=0,lte=100"`
	Status         BatchStatus   `json:"status" gorm:"default:'draft'"`
	CreatedBy      *string       `json:"created_by,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// StudentPromotion records the decision taken for a single student.
type StudentPromotion struct {
	ID          string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	BatchID     string            `json:"batch_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID   string            `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FromClassID string            `json:"from_class_id" gorm:"not null;type:uuid" validate:"required,uuid"`
	ToClassID   *string           `json:"to_class_id,omitempty" gorm:"type:uuid" validate:"omitempty,uuid"`
	Decision    PromotionDecision `json:"decision" gorm:"not null"`
	Reason      *string           `json:"reason,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
}
