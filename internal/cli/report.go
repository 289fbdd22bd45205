package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/testis/internal/check"
	"github.com/roach88/testis/internal/energy"
)

// renderCheckText writes the human-readable outcome of a check.
// With verbose set, every compared energy is listed.
func renderCheckText(w io.Writer, r *check.Result, verbose bool) {
	if r.Pass {
		fmt.Fprintf(w, "%s %s\n", passMark(), r.Case.Name)
	} else {
		fmt.Fprintf(w, "%s %s [%s]\n", failMark(), r.Case.Name, r.Kind)
		renderMessage(w, r.Message)
	}

	if r.Energy != nil {
		renderEnergySummary(w, r.Energy)
		if verbose {
			renderEntries(w, r.Energy.Entries)
		}
	}
}

// renderMessage indents every line of a possibly multi-line message.
func renderMessage(w io.Writer, msg string) {
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func renderEnergySummary(w io.Writer, report *energy.Report) {
	fmt.Fprintf(w, "  %d energies compared, max deviation %.3g (accuracy %g)\n",
		len(report.Entries), report.MaxDeviation, report.Accuracy)
}

func renderEntries(w io.Writer, entries []energy.Entry) {
	width := 0
	for _, e := range entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}
	for _, e := range entries {
		fmt.Fprintf(w, "    %-*s  reference %s  actual %s  deviation %s  %s\n",
			width, e.Key, formatEnergy(e.Reference), formatEnergy(e.Actual), formatDeviation(e.Deviation), e.Status)
	}
}

func formatEnergy(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.12g", *v)
}

func formatDeviation(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3g", *v)
}
