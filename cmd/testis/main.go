// Command testis runs regression checks over cc4s results.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/testis/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
