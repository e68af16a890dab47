package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/renamesafe/pkg/renamesafe"
	"github.com/arthur-debert/renamesafe/pkg/renamesafe/filesystem"
)

func newPlanCommand() *cobra.Command {
	var (
		dir         string
		mappingFile string
		asJSON      bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "plan [match=replacement ...]",
		Short: "Preview the move sequence for a rename batch",
		Long: `Resolve the given match/replacement pairs against the directory and
print the ordered move sequence that would be executed, without touching
any file. Running plan any number of times never mutates the directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := gatherRequests(args, mappingFile)
			if err != nil {
				return err
			}
			result, err := runBatch(dir, requests, true, logLevel)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := renamesafe.MarshalPlan(result.Plan, dir)
				if err != nil {
					return fmt.Errorf("failed to marshal plan: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			printOutcomes(result)
			printPlan(result.Plan)
			fmt.Printf("\n%d moves planned, none performed\n", result.Planned)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory containing the files to rename")
	cmd.Flags().StringVar(&mappingFile, "mapping-file", "", "JSON file with rename requests")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the plan as JSON")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	return cmd
}

func newApplyCommand() *cobra.Command {
	var (
		dir         string
		mappingFile string
		dryRun      bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "apply [match=replacement ...]",
		Short: "Execute a rename batch",
		Long: `Resolve the given match/replacement pairs against the directory,
compute a clobber-free move sequence, and execute it. If any conflict
cannot be resolved safely the directory is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := gatherRequests(args, mappingFile)
			if err != nil {
				return err
			}
			result, err := runBatch(dir, requests, dryRun, logLevel)
			if result != nil {
				printOutcomes(result)
			}
			if err != nil {
				return err
			}
			if dryRun {
				printPlan(result.Plan)
				fmt.Printf("\nDRY RUN: %d moves planned, none performed\n", result.Planned)
				return nil
			}
			for _, sr := range result.StepResults {
				status := "✓"
				if sr.Status != renamesafe.StatusSuccess {
					status = "✗"
				}
				fmt.Printf("  %s [%s] %s -> %s\n", status, sr.Step.Phase, sr.Step.Source, sr.Step.Target)
			}
			fmt.Printf("\n%d planned, %d executed, %d failed\n", result.Planned, result.Executed, result.Failed)
			if len(result.Stranded) > 0 {
				fmt.Fprintf(os.Stderr, "WARNING: temporary files left behind, resolve manually: %s\n",
					strings.Join(result.Stranded, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory containing the files to rename")
	cmd.Flags().StringVar(&mappingFile, "mapping-file", "", "JSON file with rename requests")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the plan without executing it")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	return cmd
}

// runBatch validates the directory, assembles options, and runs the batch.
func runBatch(dir string, requests []renamesafe.Request, preview bool, logLevel string) (*renamesafe.Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	level, err := renamesafe.LogLevelFromString(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	opts := renamesafe.Options{
		Preview: preview,
		Logger:  renamesafe.NewLogger(os.Stderr, level),
	}
	fsys := filesystem.NewOSFileSystem(dir)
	return renamesafe.Run(context.Background(), fsys, requests, opts)
}

// gatherRequests merges positional match=replacement arguments with an
// optional mapping file, preserving order (file entries first).
func gatherRequests(args []string, mappingFile string) ([]renamesafe.Request, error) {
	var requests []renamesafe.Request
	if mappingFile != "" {
		fileRequests, err := loadMappingFile(mappingFile)
		if err != nil {
			return nil, err
		}
		requests = append(requests, fileRequests...)
	}
	argRequests, err := parseRequestArgs(args)
	if err != nil {
		return nil, err
	}
	requests = append(requests, argRequests...)
	if len(requests) == 0 {
		return nil, fmt.Errorf("no rename requests: pass match=replacement arguments or --mapping-file")
	}
	return requests, nil
}

// parseRequestArgs parses "match=replacement" arguments in order.
func parseRequestArgs(args []string) ([]renamesafe.Request, error) {
	requests := make([]renamesafe.Request, 0, len(args))
	for _, arg := range args {
		match, replacement, ok := strings.Cut(arg, "=")
		if !ok || match == "" || replacement == "" {
			return nil, fmt.Errorf("invalid request %q: expected match=replacement", arg)
		}
		requests = append(requests, renamesafe.Request{Match: match, Replacement: replacement})
	}
	return requests, nil
}

// loadMappingFile reads rename requests from a JSON array of
// {"match": ..., "replacement": ...} objects. An array keeps the request
// order, which a JSON object would not.
func loadMappingFile(path string) ([]renamesafe.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	var requests []renamesafe.Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}
	for i, req := range requests {
		if req.Match == "" || req.Replacement == "" {
			return nil, fmt.Errorf("invalid mapping file %s: entry %d is missing match or replacement", path, i)
		}
	}
	return requests, nil
}

func printOutcomes(result *renamesafe.Result) {
	for _, res := range result.Resolutions {
		switch res.Outcome {
		case renamesafe.OutcomeMatched:
			fmt.Printf("  %s: %s\n", res.Outcome, res.Selected)
		case renamesafe.OutcomeUnmatched:
			fmt.Printf("  %s: %q (skipped)\n", res.Outcome, res.Request.Match)
		case renamesafe.OutcomeAmbiguous:
			fmt.Printf("  %s: %q -> %s (of %d candidates)\n",
				res.Outcome, res.Request.Match, res.Selected, len(res.Candidates))
		}
	}
}

func printPlan(plan *renamesafe.Plan) {
	if len(plan.Steps) == 0 {
		fmt.Println("nothing to do")
		return
	}
	for i, step := range plan.Steps {
		fmt.Printf("  %d. [%s] %s -> %s\n", i+1, step.Phase, step.Source, step.Target)
	}
}
