package renamesafe

import (
	"fmt"
	"strings"
)

// Validation failure reasons. Kept as constants so callers can match on
// ValidationError.Reason without parsing messages.
const (
	ReasonEmptyBatch        = "no rename requests supplied"
	ReasonNotADirectory     = "path is not a directory"
	ReasonDuplicateTarget   = "two mappings share the same target"
	ReasonDuplicateSource   = "two mappings share the same source"
	ReasonStrandedBystander = "target occupied by a file with no destination of its own"
)

// ValidationError represents a fatal pre-execution error. A batch that
// fails validation has performed no filesystem mutation.
type ValidationError struct {
	Reason string
	Path   string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error for %q: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("validation error for %q: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ExecutionError represents a filesystem move failing mid-batch. Execution
// halts at the failing step; completed steps are not rolled back, so the
// error carries enough context to report the partial state verbatim.
type ExecutionError struct {
	Step      Step
	Completed int
	Remaining int
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("move %q -> %q failed after %d completed steps (%d remaining): %v",
		e.Step.Source, e.Step.Target, e.Completed, e.Remaining, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// PostConditionViolation reports temporary-named files left in the
// directory after a run that otherwise succeeded. It indicates a planning
// bug or external interference; the stranded files are surfaced for manual
// correction, never auto-deleted.
type PostConditionViolation struct {
	Stranded []string
}

func (e *PostConditionViolation) Error() string {
	return fmt.Sprintf("temporary files left behind after execution: %s",
		strings.Join(e.Stranded, ", "))
}
