package renamesafe

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/renamesafe/pkg/renamesafe/filesystem"
)

// StepStatus is the outcome of a single executed step.
type StepStatus int

const (
	// StatusSuccess indicates the move completed.
	StatusSuccess StepStatus = iota
	// StatusFailure indicates the move failed; execution halted here.
	StatusFailure
	// StatusSkipped indicates the step was never attempted because an
	// earlier step failed.
	StatusSkipped
)

func (s StepStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepResult holds the outcome of one step's execution.
type StepResult struct {
	Step     Step
	Status   StepStatus
	Error    error
	Duration time.Duration
}

// Executor applies a plan's steps strictly in order against a filesystem.
// There is no rollback: if a move fails mid-sequence, execution halts and
// the already-completed steps stand.
type Executor struct {
	fsys   filesystem.FileSystem
	logger zerolog.Logger
}

// NewExecutor creates an executor over the given filesystem.
func NewExecutor(fsys filesystem.FileSystem, logger zerolog.Logger) *Executor {
	return &Executor{fsys: fsys, logger: logger}
}

// Apply performs every step of the plan in order. The context is checked
// once before the first move; once moves begin they run to completion or
// first failure, because stopping between phases would strand files under
// temporary names.
//
// On failure the returned results cover every step (failed and skipped ones
// included) and the error is an *ExecutionError carrying the completed and
// remaining counts.
func (e *Executor) Apply(ctx context.Context, plan *Plan) ([]StepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		start := time.Now()
		err := e.fsys.Rename(step.Source, step.Target)
		duration := time.Since(start)

		if err != nil {
			e.logger.Error().
				Str("source", step.Source).
				Str("target", step.Target).
				Str("phase", step.Phase.String()).
				Err(err).
				Msg("move failed, halting execution")
			results = append(results, StepResult{Step: step, Status: StatusFailure, Error: err, Duration: duration})
			for _, skipped := range plan.Steps[i+1:] {
				results = append(results, StepResult{Step: skipped, Status: StatusSkipped})
			}
			return results, &ExecutionError{
				Step:      step,
				Completed: i,
				Remaining: len(plan.Steps) - i - 1,
				Cause:     err,
			}
		}

		e.logger.Info().
			Str("source", step.Source).
			Str("target", step.Target).
			Str("phase", step.Phase.String()).
			Dur("duration", duration).
			Msg("moved")
		results = append(results, StepResult{Step: step, Status: StatusSuccess, Duration: duration})
	}
	return results, nil
}

// VerifyNoTemps scans the directory for names matching the temporary-name
// pattern. A non-empty result after a successful run indicates a planning
// bug or external interference; the stranded names are returned for manual
// correction and never cleaned up automatically.
func (e *Executor) VerifyNoTemps() ([]string, error) {
	entries, err := e.fsys.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var stranded []string
	for _, entry := range entries {
		if IsTempName(entry.Name()) {
			stranded = append(stranded, entry.Name())
		}
	}
	return stranded, nil
}
