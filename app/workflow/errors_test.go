package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validationf(nil, "bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("missing")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidStatef("wrong stage")))
	assert.Equal(t, KindConflict, KindOf(Conflictf("already done")))
	assert.Equal(t, KindStore, KindOf(Storef(errors.New("boom"), "query failed")))

	// anything outside the taxonomy counts as a store failure
	assert.Equal(t, KindStore, KindOf(errors.New("plain")))
}

func TestValidationfCarriesFields(t *testing.T) {
	err := Validationf([]string{"min_average", "min_attendance"}, "thresholds out of range")
	assert.Equal(t, []string{"min_average", "min_attendance"}, err.Fields)
	assert.Equal(t, "thresholds out of range", err.Error())
}

func TestStorefWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storef(cause, "failed to update instance %s", "abc")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to update instance abc: connection reset", err.Error())
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := InvalidStatef("expected stage %s, instance is at %s", "marks_recording", "exam_planning")
	assert.Equal(t, "expected stage marks_recording, instance is at exam_planning", err.Error())
	assert.Nil(t, err.Unwrap())
}
