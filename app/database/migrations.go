package database

import (
	"database/sql"

	"go.uber.org/zap"
)

// RunMigrations applies schema updates that the application depends on.
// Every statement is guarded so repeated startups are safe.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations")

	migrations := []struct {
		name  string
		query string
	}{
		{"workflow_instances", `
			CREATE TABLE IF NOT EXISTS workflow_instances (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				workflow_type VARCHAR(50) NOT NULL,
				reference_id UUID NOT NULL,
				current_stage VARCHAR(60) NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
				data_json JSONB NOT NULL DEFAULT '{}',
				created_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				completed_at TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_workflow_instances_type_ref
				ON workflow_instances (workflow_type, reference_id);
			CREATE INDEX IF NOT EXISTS idx_workflow_instances_status
				ON workflow_instances (status);
		`},
		{"workflow_stage_history", `
			CREATE TABLE IF NOT EXISTS workflow_stage_history (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				instance_id UUID NOT NULL REFERENCES workflow_instances(id),
				from_stage VARCHAR(60),
				to_stage VARCHAR(60) NOT NULL,
				action VARCHAR(20) NOT NULL,
				actor_id UUID,
				notes TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_stage_history_instance
				ON workflow_stage_history (instance_id);
		`},
		{"assessments", `
			CREATE TABLE IF NOT EXISTS assessments (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				title VARCHAR(200) NOT NULL,
				assessment_type VARCHAR(10) NOT NULL,
				subject_id UUID NOT NULL,
				class_id UUID NOT NULL,
				term_id UUID NOT NULL,
				max_marks DECIMAL(7,2) NOT NULL,
				assessment_date DATE,
				paper_path VARCHAR(255),
				created_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP
			);
		`},
		{"assessment_results", `
			CREATE TABLE IF NOT EXISTS assessment_results (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				assessment_id UUID NOT NULL REFERENCES assessments(id),
				student_id UUID NOT NULL,
				marks DECIMAL(7,2) NOT NULL,
				verified BOOLEAN NOT NULL DEFAULT false,
				comment TEXT,
				recorded_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE (assessment_id, student_id)
			);
		`},
		{"term_subject_scores", `
			CREATE TABLE IF NOT EXISTS term_subject_scores (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL,
				term_id UUID NOT NULL,
				subject_id UUID NOT NULL,
				formative_total DECIMAL(9,2) NOT NULL DEFAULT 0,
				formative_max DECIMAL(9,2) NOT NULL DEFAULT 0,
				summative_total DECIMAL(9,2) NOT NULL DEFAULT 0,
				summative_max DECIMAL(9,2) NOT NULL DEFAULT 0,
				formative_pct DECIMAL(5,2) NOT NULL DEFAULT 0,
				summative_pct DECIMAL(5,2) NOT NULL DEFAULT 0,
				overall_score DECIMAL(5,2) NOT NULL DEFAULT 0,
				overall_grade VARCHAR(10) NOT NULL DEFAULT '',
				overall_points DECIMAL(4,2) NOT NULL DEFAULT 0,
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE (student_id, term_id, subject_id)
			);
		`},
		{"grading_scales", `
			CREATE TABLE IF NOT EXISTS grading_scales (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name VARCHAR(100) NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
			CREATE TABLE IF NOT EXISTS grade_rules (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				scale_id UUID NOT NULL REFERENCES grading_scales(id),
				grade_code VARCHAR(10) NOT NULL,
				grade_points DECIMAL(4,2) NOT NULL DEFAULT 0,
				performance_level VARCHAR(60) NOT NULL,
				min_mark DECIMAL(5,2) NOT NULL,
				max_mark DECIMAL(5,2) NOT NULL,
				sort_order INTEGER NOT NULL DEFAULT 0
			);
		`},
		{"promotion_batches", `
			CREATE TABLE IF NOT EXISTS promotion_batches (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				academic_year_id UUID NOT NULL,
				min_average DECIMAL(5,2) NOT NULL DEFAULT 50,
				min_attendance DECIMAL(5,2) NOT NULL DEFAULT 75,
				status VARCHAR(20) NOT NULL DEFAULT 'draft',
				created_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
			CREATE TABLE IF NOT EXISTS student_promotions (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				batch_id UUID NOT NULL REFERENCES promotion_batches(id),
				student_id UUID NOT NULL,
				from_class_id UUID NOT NULL,
				to_class_id UUID,
				decision VARCHAR(20) NOT NULL,
				reason TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE (batch_id, student_id)
			);
		`},
		{"learner_competencies", `
			CREATE TABLE IF NOT EXISTS learner_competencies (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL,
				subject_id UUID NOT NULL,
				term_id UUID NOT NULL,
				competency VARCHAR(200) NOT NULL,
				level VARCHAR(40) NOT NULL,
				evidence TEXT,
				recorded_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`},
		{"library", `
			CREATE TABLE IF NOT EXISTS library_books (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				title VARCHAR(200) NOT NULL,
				author VARCHAR(150),
				isbn VARCHAR(20),
				copies INTEGER NOT NULL DEFAULT 1,
				available INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP
			);
			CREATE TABLE IF NOT EXISTS book_loans (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				book_id UUID NOT NULL REFERENCES library_books(id),
				student_id UUID NOT NULL,
				loaned_at TIMESTAMP NOT NULL DEFAULT NOW(),
				due_at TIMESTAMP NOT NULL,
				returned_at TIMESTAMP
			);
		`},
		{"curriculum_plans", `
			CREATE TABLE IF NOT EXISTS curriculum_plans (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				subject_id UUID NOT NULL,
				class_id UUID NOT NULL,
				term_id UUID NOT NULL,
				title VARCHAR(200) NOT NULL,
				outline TEXT,
				created_by UUID,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`},
		{"term_reports", `
			CREATE TABLE IF NOT EXISTS term_reports (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL,
				term_id UUID NOT NULL,
				overall_average DECIMAL(5,2),
				overall_grade VARCHAR(10),
				class_teacher_remark TEXT,
				head_teacher_remark TEXT,
				published_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE (student_id, term_id)
			);
		`},
	}

	for _, m := range migrations {
		if _, err := db.Exec(m.query); err != nil {
			logger.Error("Migration failed", zap.String("migration", m.name), zap.Error(err))
			return err
		}
	}

	logger.Info("Database migrations completed")
	return nil
}
