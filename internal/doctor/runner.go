package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

// ErrChecksFailed is returned when at least one check failed with error severity.
var ErrChecksFailed = errors.New("health checks failed")

// Runner orchestrates health checks and fixes
type Runner struct {
	registry *Registry
	reporter Reporter
	out      io.Writer
	logger   logger.Logger
}

// RunOptions configures the doctor run behavior
type RunOptions struct {
	Verbose bool

	// Fix applies available fixes and re-runs the affected checks.
	Fix bool

	// Categories filters checks by category. Empty means all.
	Categories []Category
}

// NewRunner creates a new Runner. Fix suggestions are written to out.
func NewRunner(registry *Registry, reporter Reporter, out io.Writer, log logger.Logger) *Runner {
	return &Runner{
		registry: registry,
		reporter: reporter,
		out:      out,
		logger:   log,
	}
}

// Run executes health checks and applies fixes if requested.
func (r *Runner) Run(ctx context.Context, opts RunOptions) error {
	r.logger.Info("starting doctor run", "verbose", opts.Verbose, "fix", opts.Fix)

	results := r.registry.Run(ctx, opts.Categories)

	r.logger.Info("checks completed", "total", len(results))

	if err := r.reporter.Report(results, opts.Verbose); err != nil {
		return errors.Wrap(err, "failed to report results")
	}

	fixable := collectFixable(results)
	if len(fixable) == 0 {
		return r.exitError(results)
	}

	if !opts.Fix {
		r.suggestFixes(fixable)

		return r.exitError(results)
	}

	if err := r.applyFixes(ctx, fixable); err != nil {
		return errors.Wrap(err, "failed to apply fixes")
	}

	r.logger.Info("re-running checks after fixes")

	rerun := r.registry.Run(ctx, opts.Categories)
	if err := r.reporter.Report(rerun, opts.Verbose); err != nil {
		return errors.Wrap(err, "failed to report results")
	}

	return r.exitError(rerun)
}

// collectFixable returns failed results that have a fix available.
func collectFixable(results []CheckResult) []CheckResult {
	var fixable []CheckResult

	for _, result := range results {
		if result.Status == StatusFail && result.HasFix() {
			fixable = append(fixable, result)
		}
	}

	return fixable
}

func (r *Runner) applyFixes(ctx context.Context, results []CheckResult) error {
	applied := make(map[string]bool)

	for _, result := range results {
		if applied[result.FixID] {
			continue
		}

		fixer, ok := r.registry.GetFixer(result.FixID)
		if !ok {
			r.logger.Error("fixer not found", "fixID", result.FixID)
			continue
		}

		r.logger.Info("applying fix", "check", result.Name, "fixer", fixer.ID())

		if err := fixer.Fix(ctx); err != nil {
			return errors.Wrapf(err, "failed to fix %q", result.Name)
		}

		applied[result.FixID] = true
	}

	return nil
}

func (r *Runner) suggestFixes(results []CheckResult) {
	fmt.Fprintln(r.out, "\nSuggested fixes:")

	for _, result := range results {
		fixer, ok := r.registry.GetFixer(result.FixID)
		if !ok {
			continue
		}

		fmt.Fprintf(r.out, "  - %s: %s\n", result.Name, fixer.Description())
	}

	fmt.Fprintln(r.out, "\nRun 'aletheia-hooks doctor --fix' to apply fixes automatically")
}

func (r *Runner) exitError(results []CheckResult) error {
	errorCount := 0
	warningCount := 0

	for _, result := range results {
		switch {
		case result.IsError():
			errorCount++
		case result.IsWarning():
			warningCount++
		}
	}

	r.logger.Info("final status",
		"errors", errorCount,
		"warnings", warningCount,
		"total", len(results),
	)

	if errorCount > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", errorCount)
	}

	return nil
}
