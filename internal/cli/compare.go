package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/testis/internal/energy"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Accuracy float64
}

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	Reference string         `json:"reference"`
	Actual    string         `json:"actual"`
	Pass      bool           `json:"pass"`
	Report    *energy.Report `json:"report,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <reference> <actual>",
		Short: "Compare the energies of two result files",
		Long: `Compare the energies of two cc4s result files.

Every numeric value beneath a key containing "energy" is matched by its
path; each pair must agree within the absolute accuracy, boundary inclusive.
Keys present in only one file fail the comparison.

Examples:
  testis compare correct.out.yaml cc4s.out.yaml
  testis compare correct.out.yaml cc4s.out.yaml --accuracy 1e-6 -v`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Accuracy, "accuracy", energy.DefaultAccuracy, "absolute energy tolerance")

	return cmd
}

func runCompare(opts *CompareOptions, referencePath, actualPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if err := energy.ValidateAccuracy(opts.Accuracy); err != nil {
		return commandError(formatter, ErrCodeFlags, WrapExitError(ExitCommandError, "invalid accuracy", err))
	}

	report, err := energy.CompareFiles(referencePath, actualPath, opts.Accuracy)
	result := CompareResult{
		Reference: referencePath,
		Actual:    actualPath,
		Pass:      err == nil,
		Report:    report,
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if err != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: compareErrorCode(err), Message: err.Error()}
		}
		if encErr := formatter.JSON(resp); encErr != nil {
			return encErr
		}
	} else {
		w := formatter.Writer
		if err == nil {
			formatter.Success(passMark() + " energies agree")
		} else {
			formatter.Success(failMark() + " energies disagree")
			renderMessage(w, err.Error())
		}
		if report != nil {
			renderEnergySummary(w, report)
			if opts.Verbose {
				renderEntries(w, report.Entries)
			}
		}
	}

	if err != nil {
		return WrapExitError(ExitFailure, "comparison failed", err)
	}
	return nil
}

func compareErrorCode(err error) string {
	var mismatch *energy.MismatchError
	if errors.As(err, &mismatch) || errors.Is(err, energy.ErrNoEnergies) {
		return ErrCodeEnergy
	}
	return ErrCodeLoad
}
