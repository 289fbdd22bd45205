package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/testis/internal/resultdoc"
)

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <file> [key]",
		Short: "Print a result document or one of its keys",
		Long: `Load a cc4s result document and print it, or the value of one
top-level key, as YAML (or JSON with --format json).

Examples:
  testis read cc4s.out dryRun
  testis read cc4s.out.yaml --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 2 {
				key = args[1]
			}
			return runRead(rootOpts, args[0], key, cmd)
		},
	}

	return cmd
}

func runRead(opts *RootOptions, path, key string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := resultdoc.ReadYAML(path)
	if err != nil {
		return commandError(formatter, ErrCodeLoad, WrapExitError(ExitFailure, "load failed", err))
	}

	var value any = map[string]any(doc)
	if key != "" {
		if value, err = doc.Lookup(key); err != nil {
			return commandError(formatter, ErrCodeLoad, WrapExitError(ExitFailure, path, err))
		}
	}

	if opts.Format == "json" {
		return formatter.Success(value)
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	_, err = formatter.Writer.Write(out)
	return err
}
