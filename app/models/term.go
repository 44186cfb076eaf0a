package models

import "time"

// Term is one teaching period within an academic year.
type Term struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AcademicYearID string     `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name           string     `json:"name" gorm:"not null" validate:"required"`
	StartDate      CustomDate `json:"start_date" gorm:"not null;type:date" validate:"required"`
	EndDate        CustomDate `json:"end_date" gorm:"not null;type:date" validate:"required"`
	IsCurrent      bool       `json:"is_current" gorm:"default:false"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
}
