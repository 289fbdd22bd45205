package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/testis/internal/energy"
	"github.com/roach88/testis/internal/resultdoc"
)

// ErrDryRun is returned when the run summary reports a dry run.
// The message is matched verbatim by the cc4s test suite.
var ErrDryRun = errors.New("We should not be doing dryRuns now")

// Runner executes cases.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner logging to logger.
// A nil logger discards all output.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

// Run executes the case.
//
// The returned Result is never nil. On failure it carries the failure kind
// and message, and the same failure is returned as the error. Nothing is
// retried or recovered.
func (r *Runner) Run(ctx context.Context, c Case) (*Result, error) {
	result := &Result{Case: c, Pass: true}

	outputPath := c.Path(c.Output)
	out, err := resultdoc.ReadYAML(outputPath)
	if err != nil {
		return result.fail(KindLoad, err)
	}
	if result.OutputDigest, err = out.Digest(); err != nil {
		r.logger.DebugContext(ctx, "output has no digest",
			"path", outputPath,
			"error", err,
		)
	}

	flag, err := out.Lookup(c.DryRunKey)
	if err != nil {
		return result.fail(KindLoad, fmt.Errorf("%s: %w", outputPath, err))
	}
	if !resultdoc.EqualsZero(flag) {
		r.logger.InfoContext(ctx, "dry run detected",
			"case", c.Name,
			"key", c.DryRunKey,
			"value", flag,
		)
		return result.fail(KindDryRun, ErrDryRun)
	}

	report, err := energy.CompareFiles(c.Path(c.Reference), c.Path(c.Actual), c.Accuracy)
	result.Energy = report
	if err != nil {
		r.logger.InfoContext(ctx, "energy comparison failed",
			"case", c.Name,
			"error", err,
		)
		return result.fail(comparisonKind(err), err)
	}

	r.logger.InfoContext(ctx, "check passed",
		"case", c.Name,
		"energies", len(report.Entries),
		"max_deviation", report.MaxDeviation,
		"accuracy", c.Accuracy,
	)
	return result, nil
}

// comparisonKind separates disagreeing energies from unreadable files.
func comparisonKind(err error) Kind {
	var mismatch *energy.MismatchError
	if errors.As(err, &mismatch) ||
		errors.Is(err, energy.ErrNoEnergies) ||
		errors.Is(err, energy.ErrInvalidAccuracy) {
		return KindEnergy
	}
	return KindLoad
}

// Run executes c with a runner that discards logs.
func Run(ctx context.Context, c Case) (*Result, error) {
	return NewRunner(nil).Run(ctx, c)
}

// Check runs the standard cc4s case in dir: dryRun must be 0 in cc4s.out and
// the energies of cc4s.out.yaml must match correct.out.yaml within 1e-7.
func Check(dir string) error {
	_, err := Run(context.Background(), DefaultCase(dir))
	return err
}
