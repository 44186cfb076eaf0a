package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookLoanOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := &BookLoan{DueAt: now.Add(-24 * time.Hour)}
	assert.True(t, overdue.Overdue(now))

	current := &BookLoan{DueAt: now.Add(24 * time.Hour)}
	assert.False(t, current.Overdue(now))

	// a returned loan is never overdue, late or not
	returnedAt := now.Add(-time.Hour)
	returned := &BookLoan{DueAt: now.Add(-48 * time.Hour), ReturnedAt: &returnedAt}
	assert.False(t, returned.Overdue(now))
}
