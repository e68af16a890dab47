// Package renamesafe computes and executes batch file renames without ever
// overwriting or losing a file, even when sources and targets overlap in
// chains or cycles. A batch runs in five stages: resolve requests against a
// directory snapshot, build a conflict graph over the resolved mappings,
// allocate temporary names for files that must be displaced, plan a
// three-phase move sequence, and execute it. Each batch owns all of its
// state and discards it at the end; concurrent batches against the same
// directory are unsupported.
package renamesafe

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/renamesafe/pkg/renamesafe/filesystem"
)

// Options controls a batch run.
type Options struct {
	// Preview computes the full plan but replaces the executor with a
	// no-op, so the directory is never mutated.
	Preview bool
	// Logger receives progress and summary events. Use zerolog.Nop() for
	// silence.
	Logger zerolog.Logger
}

// DefaultOptions returns options for a silent, executing run.
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

// Result is the full outcome of one batch run. The plan is always present,
// even in preview mode or when execution failed partway.
type Result struct {
	Resolutions []Resolution
	Plan        *Plan
	StepResults []StepResult

	Planned  int
	Executed int
	Failed   int

	// Stranded lists temporary-named files found after execution. Non-empty
	// is a post-condition violation: reported, never cleaned.
	Stranded []string
	// Warnings collects non-fatal conditions (unmatched or ambiguous
	// requests, post-condition violations).
	Warnings []string

	Preview bool
}

// Run performs one batch: snapshot, resolve, classify, plan, and (unless
// previewing) execute. Fatal validation errors return before any mutation;
// execution errors return the partial result alongside the error.
func Run(ctx context.Context, fsys filesystem.FileSystem, requests []Request, opts Options) (*Result, error) {
	logger := opts.Logger

	if len(requests) == 0 {
		return nil, &ValidationError{Reason: ReasonEmptyBatch, Path: "."}
	}

	snap, err := TakeSnapshot(fsys)
	if err != nil {
		return nil, &ValidationError{Reason: ReasonNotADirectory, Path: ".", Cause: err}
	}
	logger.Debug().Int("files", snap.Len()).Msg("directory snapshot taken")

	mappings, resolutions := ResolveAll(requests, snap)
	result := &Result{Resolutions: resolutions, Preview: opts.Preview}
	for _, res := range resolutions {
		switch res.Outcome {
		case OutcomeUnmatched:
			warning := fmt.Sprintf("no file matches %q, request skipped", res.Request.Match)
			result.Warnings = append(result.Warnings, warning)
			logger.Warn().Str("match", res.Request.Match).Msg("request unmatched")
		case OutcomeAmbiguous:
			warning := fmt.Sprintf("%d files match %q, using %q", len(res.Candidates), res.Request.Match, res.Selected)
			result.Warnings = append(result.Warnings, warning)
			logger.Warn().
				Str("match", res.Request.Match).
				Str("selected", res.Selected).
				Strs("candidates", res.Candidates).
				Msg("request ambiguous")
		}
	}

	graph, err := BuildGraph(mappings, snap)
	if err != nil {
		return nil, err
	}

	result.Plan = BuildPlan(graph, snap, logger)
	result.Planned = len(result.Plan.Steps)

	if opts.Preview {
		logger.Info().Int("planned", result.Planned).Msg("preview only, no moves performed")
		return result, nil
	}

	executor := NewExecutor(fsys, logger)
	stepResults, execErr := executor.Apply(ctx, result.Plan)
	result.StepResults = stepResults
	for _, sr := range stepResults {
		switch sr.Status {
		case StatusSuccess:
			result.Executed++
		case StatusFailure:
			result.Failed++
		}
	}
	if execErr != nil {
		return result, execErr
	}

	stranded, scanErr := executor.VerifyNoTemps()
	if scanErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("post-condition scan failed: %v", scanErr))
		return result, nil
	}
	if len(stranded) > 0 {
		result.Stranded = stranded
		violation := &PostConditionViolation{Stranded: stranded}
		result.Warnings = append(result.Warnings, violation.Error())
		logger.Warn().Strs("stranded", stranded).Msg("temporary files left after execution")
	}

	logger.Info().
		Int("planned", result.Planned).
		Int("executed", result.Executed).
		Int("failed", result.Failed).
		Msg("batch completed")
	return result, nil
}
