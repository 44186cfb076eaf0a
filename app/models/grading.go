package models

import "time"

// GradingScale groups a set of grade rules, e.g. the CBC performance scale.
type GradingScale struct {
	ID        string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name      string       `json:"name" gorm:"not null" validate:"required"`
	IsActive  bool         `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	Rules     []*GradeRule `json:"rules,omitempty" gorm:"foreignKey:ScaleID;references:ID"`
}

// GradeRule maps a closed mark interval to a grade code.
type GradeRule struct {
	ID               string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	ScaleID          string  `json:"scale_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GradeCode        string  `json:"grade_code" gorm:"not null" validate:"required"`
	GradePoints      float64 `json:"grade_points" gorm:"type:decimal(4,2);default:0" validate:"gte=0"`
	PerformanceLevel string  `json:"performance_level" gorm:"not null" validate:"required"`
	MinMark          float64 `json:"min_mark" gorm:"not null;type:decimal(5,2)" validate:"gte=0"`
	MaxMark          float64 `json:"max_mark" gorm:"not null;type:decimal(5,2)" validate:"gte=0"`
	SortOrder        int     `json:"sort_order" gorm:"default:0"`
}

// Contains reports whether mark falls inside the rule's closed interval.
func (r *GradeRule) Contains(mark float64) bool {
	return mark >= r.MinMark && mark <= r.MaxMark
}
