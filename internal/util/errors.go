package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrInvalidQuiz        = errors.New("invalid quiz")
	ErrAttemptNotFound    = errors.New("attempt not found or expired")
	ErrAttemptFinished    = errors.New("attempt already finished")
	ErrAnswerRequired     = errors.New("an answer must be selected before advancing")
	ErrInvalidYear        = errors.New("invalid enrollment year")
	ErrYearNotSet         = errors.New("enrollment year not set")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSubmissionNotSaved = errors.New("submission write failed")
)

// PermissionError carries the full context of a denied operation: what was
// attempted, on which path, with which payload. It is surfaced to the user
// as a plain 403 and routed to the diagnostics sink for developer-facing
// inspection.
type PermissionError struct {
	Op      string // get | list | create | update | delete
	Path    string
	Payload interface{}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: insufficient permissions for %s operation on path %s", e.Op, e.Path)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// permissionSink receives every PermissionError raised in the process. The
// app wires it to the structured logger and the Prometheus denial counter;
// it stays nil in tests.
var permissionSink func(*PermissionError)

func SetPermissionSink(sink func(*PermissionError)) {
	permissionSink = sink
}

// DenyPermission builds a PermissionError and reports it to the sink.
func DenyPermission(op, path string, payload interface{}) *PermissionError {
	perr := &PermissionError{Op: op, Path: path, Payload: payload}
	if permissionSink != nil {
		permissionSink(perr)
	}
	return perr
}
