package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/testis/internal/check"
	"github.com/roach88/testis/internal/energy"
	"github.com/roach88/testis/internal/ledger"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Accuracy  float64
	Output    string
	Reference string
	Actual    string
	Ledger    string // optional ledger database path
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [case-dir]",
		Short: "Run a cc4s regression case",
		Long: `Run the regression check of a cc4s case directory.

Loads cc4s.out and requires dryRun to be 0, then compares the energies of
cc4s.out.yaml against correct.out.yaml within an absolute accuracy.
A check.yaml or check.toml manifest in the case directory overrides the
defaults; flags override the manifest.

Exit codes:
  0 - Check passed
  1 - Check failed (dry run, energy mismatch, missing result file)
  2 - Command error (invalid flags, bad manifest, ledger failure)

Examples:
  testis check
  testis check tests/ueg/rs1.0-7occ-26virt
  testis check --accuracy 1e-6 --format json
  testis check --ledger runs.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runCheck(opts, dir, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Accuracy, "accuracy", energy.DefaultAccuracy, "absolute energy tolerance")
	cmd.Flags().StringVar(&opts.Output, "output", check.DefaultOutput, "run summary file holding the dryRun flag")
	cmd.Flags().StringVar(&opts.Reference, "reference", check.DefaultReference, "reference results")
	cmd.Flags().StringVar(&opts.Actual, "actual", check.DefaultActual, "results under test")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "record the run in this SQLite ledger")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return commandError(formatter, ErrCodeNotFound,
			NewExitError(ExitCommandError, fmt.Sprintf("case directory not found: %s", dir)))
	}

	c, err := check.LoadCase(dir)
	if err != nil {
		return commandError(formatter, ErrCodeManifest, WrapExitError(ExitCommandError, "invalid case", err))
	}
	applyCheckFlags(opts, cmd, &c)

	if err := energy.ValidateAccuracy(c.Accuracy); err != nil {
		return commandError(formatter, ErrCodeFlags, WrapExitError(ExitCommandError, "invalid accuracy", err))
	}

	formatter.VerboseLog("Running case %s in %s (accuracy %g)", c.Name, c.Dir, c.Accuracy)

	runner := check.NewRunner(opts.logger(cmd.ErrOrStderr()))
	result, runErr := runner.Run(cmd.Context(), c)

	if opts.Ledger != "" {
		if err := recordRun(opts, cmd, formatter, result); err != nil {
			return commandError(formatter, ErrCodeLedger, WrapExitError(ExitCommandError, "ledger", err))
		}
	}

	if opts.Format == "json" {
		if err := outputCheckJSON(formatter, result); err != nil {
			return err
		}
	} else {
		renderCheckText(formatter.Writer, result, opts.Verbose)
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s check failed", result.Kind), runErr)
	}
	return nil
}

// applyCheckFlags lets explicitly set flags win over the manifest.
func applyCheckFlags(opts *CheckOptions, cmd *cobra.Command, c *check.Case) {
	flags := cmd.Flags()
	if flags.Changed("accuracy") {
		c.Accuracy = opts.Accuracy
	}
	if flags.Changed("output") {
		c.Output = opts.Output
	}
	if flags.Changed("reference") {
		c.Reference = opts.Reference
	}
	if flags.Changed("actual") {
		c.Actual = opts.Actual
	}
}

func recordRun(opts *CheckOptions, cmd *cobra.Command, formatter *OutputFormatter, result *check.Result) error {
	l, err := ledger.Open(opts.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	run, err := l.RecordRun(cmd.Context(), result)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Recorded run %s (seq %d) in %s", run.ID, run.Seq, opts.Ledger)
	return nil
}

func outputCheckJSON(formatter *OutputFormatter, result *check.Result) error {
	if result.Pass {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result})
	}
	return formatter.JSON(CLIResponse{
		Status: "error",
		Data:   result,
		Error: &CLIError{
			Code:    kindErrorCode(result.Kind),
			Message: result.Message,
		},
	})
}

func kindErrorCode(kind check.Kind) string {
	switch kind {
	case check.KindLoad:
		return ErrCodeLoad
	case check.KindDryRun:
		return ErrCodeDryRun
	case check.KindEnergy:
		return ErrCodeEnergy
	}
	return ErrCodeGeneric
}
