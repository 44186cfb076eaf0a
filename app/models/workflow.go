package models

import (
	"encoding/json"
	"time"
)

// WorkflowType identifies which staged process an instance belongs to.
type WorkflowType string

const (
	WorkflowExamination    WorkflowType = "examination"
	WorkflowAssessment     WorkflowType = "assessment"
	WorkflowPromotion      WorkflowType = "promotion"
	WorkflowYearTransition WorkflowType = "year_transition"
	WorkflowReport         WorkflowType = "report"
	WorkflowLibrary        WorkflowType = "library"
	WorkflowCurriculum     WorkflowType = "curriculum"
)

// WorkflowStatus is the lifecycle state of an instance.
type WorkflowStatus string

const (
	WorkflowInProgress WorkflowStatus = "in_progress"
	WorkflowCompleted  WorkflowStatus = "completed"
	WorkflowRejected   WorkflowStatus = "rejected"
)

// WorkflowInstance tracks a staged process attached to a domain record
// (an assessment, a promotion batch, a report and so on).
type WorkflowInstance struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	WorkflowType WorkflowType    `json:"workflow_type" gorm:"not null;index" validate:"required"`
	ReferenceID  string          `json:"reference_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CurrentStage string          `json:"current_stage" gorm:"not null" validate:"required"`
	Status       WorkflowStatus  `json:"status" gorm:"not null;default:'in_progress';index"`
	Data         json.RawMessage `json:"data" gorm:"type:jsonb"`
	CreatedBy    *string         `json:"created_by,omitempty" gorm:"index;type:uuid" validate:"omitempty,uuid"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// StageHistory records a single transition taken by an instance.
type StageHistory struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InstanceID string    `json:"instance_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FromStage  *string   `json:"from_stage,omitempty"`
	ToStage    string    `json:"to_stage" gorm:"not null"`
	Action     string    `json:"action" gorm:"not null"` // start, advance, complete, send_back, reject
	ActorID    *string   `json:"actor_id,omitempty" gorm:"index;type:uuid" validate:"omitempty,uuid"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
