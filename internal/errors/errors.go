package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/weekwise/internal/logger"
)

// ValidationError reports a malformed answer or field value. The caller
// should re-prompt; values are never silently coerced.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ConstraintViolation reports a proposed mutation that would overlap a fixed
// event or break a placement invariant. The original calendar is preserved.
type ConstraintViolation struct {
	ItemID string
	Reason string
}

func (e *ConstraintViolation) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("constraint violation: %s", e.Reason)
	}
	return fmt.Sprintf("constraint violation on %s: %s", e.ItemID, e.Reason)
}

// SessionStateError reports an operation attempted against a session in the
// wrong state (no draft, unresolved questions, stale session). Fatal to the
// request; the caller must restart the flow.
type SessionStateError struct {
	Reason string
}

func (e *SessionStateError) Error() string {
	return fmt.Sprintf("session state error: %s", e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsConstraintViolation reports whether err is (or wraps) a ConstraintViolation.
func IsConstraintViolation(err error) bool {
	var cv *ConstraintViolation
	return stderrors.As(err, &cv)
}

// IsSessionState reports whether err is (or wraps) a SessionStateError.
func IsSessionState(err error) bool {
	var se *SessionStateError
	return stderrors.As(err, &se)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
