package workflow

import "fmt"

// Kind classifies an engine failure so handlers can map it to a status code.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindStore
)

// Error is the structured failure returned by every engine operation.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf builds a validation failure naming the offending fields.
func Validationf(fields []string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...), Fields: fields}
}

// NotFoundf builds a missing-record failure.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidStatef builds a stage-guard failure.
func InvalidStatef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds an already-done failure, e.g. repeated aggregation.
func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Storef wraps a database error.
func Storef(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStore, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure kind; unknown errors count as store failures.
func KindOf(err error) Kind {
	if we, ok := err.(*Error); ok {
		return we.Kind
	}
	return KindStore
}
