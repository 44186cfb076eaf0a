package promotions

import (
	"database/sql"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/promotion"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

func insertBatch(tx *sql.Tx, req *criteriaRequest, actorID *string) (*models.PromotionBatch, error) {
	b := &models.PromotionBatch{
		AcademicYearID: req.AcademicYearID,
		MinAverage:     req.MinAverage,
		MinAttendance:  req.MinAttendance,
		Status:         models.BatchDraft,
		CreatedBy:      actorID,
	}
	err := tx.QueryRow(`
		INSERT INTO promotion_batches (academic_year_id, min_average, min_attendance, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at`,
		b.AcademicYearID, b.MinAverage, b.MinAttendance, actorID,
	).Scan(&b.ID, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to create promotion batch")
	}
	return b, nil
}

// loadCandidates queries every active student with their class level, the
// target class from the promotion mapping, the average of the stored
// overall scores over the year's terms and the attendance rate over the
// academic year. Students with no attendance records count as fully
// present.
func loadCandidates(db *sql.DB, batch *models.PromotionBatch) ([]promotion.Candidate, error) {
	rows, err := db.Query(`
		SELECT s.id, s.class_id, c.name,
		       cp.to_class_id,
		       scores.avg_overall,
		       scores.avg_overall IS NOT NULL,
		       COALESCE(att.pct, 100)
		FROM students s
		JOIN classes c ON c.id = s.class_id AND c.deleted_at IS NULL
		LEFT JOIN class_promotions cp
		       ON cp.from_class_id = s.class_id
		      AND cp.deleted_at IS NULL
		      AND (cp.academic_year_id IS NULL OR cp.academic_year_id = $1)
		LEFT JOIN LATERAL (
			SELECT ROUND(AVG(tss.overall_score), 2) AS avg_overall
			FROM term_subject_scores tss
			JOIN terms t ON t.id = tss.term_id
			WHERE tss.student_id = s.id AND t.academic_year_id = $1
		) scores ON true
		LEFT JOIN LATERAL (
			SELECT ROUND(COUNT(*) FILTER (WHERE a.status IN ('present', 'late')) * 100.0
				/ NULLIF(COUNT(*), 0), 2) AS pct
			FROM attendance a
			JOIN terms t ON a.date BETWEEN t.start_date AND t.end_date
			WHERE a.student_id = s.id AND t.academic_year_id = $1
		) att ON true
		WHERE s.is_active = true AND s.deleted_at IS NULL
		ORDER BY c.name, s.last_name`, batch.AcademicYearID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to load promotion candidates")
	}
	defer rows.Close()

	candidates := []promotion.Candidate{}
	for rows.Next() {
		var (
			cand      promotion.Candidate
			toClass   sql.NullString
			avg       sql.NullFloat64
			hasScores bool
			att       float64
		)
		if err := rows.Scan(&cand.StudentID, &cand.FromClassID, &cand.ClassLevel,
			&toClass, &avg, &hasScores, &att); err != nil {
			return nil, workflow.Storef(err, "failed to scan promotion candidate")
		}
		if toClass.Valid {
			cand.ToClassID = &toClass.String
		}
		cand.Average = avg.Float64
		cand.HasScores = hasScores
		cand.AttendancePct = att
		candidates = append(candidates, cand)
	}
	return candidates, rows.Err()
}
