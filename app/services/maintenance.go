package services

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// staleAfterDays is how long an in-progress workflow may sit untouched
// before the sweep reports it.
const staleAfterDays = 90

// SweepStaleWorkflows logs workflow instances that have been idle too long
// so staff can chase or abandon them.
func SweepStaleWorkflows(db *sql.DB, logger *zap.Logger) error {
	stale, err := workflow.StaleInProgress(db, staleAfterDays)
	if err != nil {
		return err
	}
	for _, inst := range stale {
		logger.Warn("Workflow instance idle",
			zap.String("instance_id", inst.ID),
			zap.String("workflow_type", string(inst.WorkflowType)),
			zap.String("current_stage", inst.CurrentStage),
			zap.Time("last_update", inst.UpdatedAt))
	}
	logger.Info("Stale workflow sweep completed", zap.Int("found", len(stale)))
	return nil
}

// FlagOverdueLoans logs library loans past their due date.
func FlagOverdueLoans(db *sql.DB, logger *zap.Logger) error {
	rows, err := db.Query(`
		SELECT bl.id, bl.student_id, bl.due_at, lb.title
		FROM book_loans bl
		JOIN library_books lb ON lb.id = bl.book_id
		WHERE bl.returned_at IS NULL AND bl.due_at < NOW()`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var loanID, studentID, title string
		var dueAt sql.NullTime
		if err := rows.Scan(&loanID, &studentID, &dueAt, &title); err != nil {
			logger.Error("Failed to scan overdue loan", zap.Error(err))
			continue
		}
		logger.Warn("Book loan overdue",
			zap.String("loan_id", loanID),
			zap.String("student_id", studentID),
			zap.String("title", title),
			zap.Time("due_at", dueAt.Time))
		count++
	}
	logger.Info("Overdue loan sweep completed", zap.Int("found", count))
	return rows.Err()
}
