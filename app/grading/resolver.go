package grading

import (
	"database/sql"
	"sync"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// Ungraded is returned when no rule's interval contains the mark.
var Ungraded = ResolvedGrade{
	GradeCode:        "ungraded",
	PerformanceLevel: "Not Graded",
}

// ResolvedGrade is the outcome of an interval lookup.
type ResolvedGrade struct {
	GradeCode        string  `json:"grade_code"`
	GradePoints      float64 `json:"grade_points"`
	PerformanceLevel string  `json:"performance_level"`
}

// Resolver answers grade lookups from an in-memory copy of the active
// grading scale. Reload swaps the cache; lookups never touch the database.
type Resolver struct {
	mu    sync.RWMutex
	rules []*models.GradeRule
}

// NewResolver builds a resolver over a fixed rule set, ordered as given.
func NewResolver(rules []*models.GradeRule) *Resolver {
	return &Resolver{rules: rules}
}

// Reload replaces the cached rules with the active scale's rules from the
// database, ordered by sort_order then min_mark descending.
func (r *Resolver) Reload(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT gr.id, gr.scale_id, gr.grade_code, gr.grade_points, gr.performance_level, gr.min_mark, gr.max_mark, gr.sort_order
		FROM grade_rules gr
		JOIN grading_scales gs ON gs.id = gr.scale_id
		WHERE gs.is_active = true
		ORDER BY gr.sort_order ASC, gr.min_mark DESC`)
	if err != nil {
		return workflow.Storef(err, "failed to load grading scale")
	}
	defer rows.Close()

	rules := []*models.GradeRule{}
	for rows.Next() {
		rule := &models.GradeRule{}
		if err := rows.Scan(&rule.ID, &rule.ScaleID, &rule.GradeCode, &rule.GradePoints,
			&rule.PerformanceLevel, &rule.MinMark, &rule.MaxMark, &rule.SortOrder); err != nil {
			return workflow.Storef(err, "failed to scan grade rule")
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return workflow.Storef(err, "failed to read grading scale")
	}

	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
	return nil
}

// Resolve returns the first rule whose closed interval contains the mark.
// A mark outside every interval resolves to Ungraded rather than an error,
// so a partially configured scale degrades quietly.
func (r *Resolver) Resolve(mark float64) ResolvedGrade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.Contains(mark) {
			return ResolvedGrade{
				GradeCode:        rule.GradeCode,
				GradePoints:      rule.GradePoints,
				PerformanceLevel: rule.PerformanceLevel,
			}
		}
	}
	return Ungraded
}

// Empty reports whether the cache holds no rules.
func (r *Resolver) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules) == 0
}
