package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/testis/internal/energy"
	"github.com/roach88/testis/internal/ledger"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Ledger string
	Limit  int
	Run    string // show the energy deltas of this run instead of the run list
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [case]",
		Short: "List recorded check runs",
		Long: `List check runs recorded with "testis check --ledger", newest first.

Examples:
  testis history --ledger runs.db
  testis history rs1.0-7occ-26virt --ledger runs.db --limit 5
  testis history --ledger runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			caseName := ""
			if len(args) == 1 {
				caseName = args[0]
			}
			return runHistory(opts, caseName, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "path to the SQLite ledger (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 = all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the energy deltas of one run")
	cmd.MarkFlagRequired("ledger")

	return cmd
}

func runHistory(opts *HistoryOptions, caseName string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	// Reading history must never create an empty ledger as a side effect.
	if _, err := os.Stat(opts.Ledger); err != nil {
		return commandError(formatter, ErrCodeNotFound,
			NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", opts.Ledger)))
	}

	l, err := ledger.Open(opts.Ledger)
	if err != nil {
		return commandError(formatter, ErrCodeLedger, WrapExitError(ExitCommandError, "ledger", err))
	}
	defer l.Close()

	if opts.Run != "" {
		deltas, err := l.Deltas(cmd.Context(), opts.Run)
		if err != nil {
			return commandError(formatter, ErrCodeLedger, WrapExitError(ExitCommandError, "ledger", err))
		}
		if opts.Format == "json" {
			return formatter.Success(deltas)
		}
		renderDeltas(formatter, deltas)
		return nil
	}

	runs, err := l.History(cmd.Context(), caseName, opts.Limit)
	if err != nil {
		return commandError(formatter, ErrCodeLedger, WrapExitError(ExitCommandError, "ledger", err))
	}
	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	renderRuns(formatter, runs)
	return nil
}

func renderRuns(f *OutputFormatter, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded.")
		return
	}
	for _, r := range runs {
		mark, verdict := passMark(), "pass"
		if !r.Pass {
			mark, verdict = failMark(), r.Kind
		}
		fmt.Fprintf(f.Writer, "%s %4d  %s  %s  %s  %s\n",
			mark, r.Seq, r.RecordedAt.Format(time.RFC3339), r.ID, r.Case, verdict)
	}
}

func renderDeltas(f *OutputFormatter, deltas []ledger.Delta) {
	if len(deltas) == 0 {
		fmt.Fprintln(f.Writer, "No energies recorded for this run.")
		return
	}
	entries := make([]energy.Entry, len(deltas))
	for i, d := range deltas {
		entries[i] = energy.Entry{
			Key:       d.Key,
			Reference: d.Reference,
			Actual:    d.Actual,
			Deviation: d.Deviation,
			Status:    d.Status,
		}
	}
	renderEntries(f.Writer, entries)
}
