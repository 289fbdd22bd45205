package check

import (
	"github.com/roach88/testis/internal/energy"
)

// Kind classifies why a check failed.
type Kind string

// Failure kinds, one per error class a check can raise.
const (
	KindLoad   Kind = "load"    // a result file is missing, malformed or lacks a required key
	KindDryRun Kind = "dry_run" // the run was a dry run
	KindEnergy Kind = "energy"  // energies disagree beyond accuracy
)

// Result is the outcome of running a case.
type Result struct {
	Case Case `json:"case"`

	// Pass is true when every step succeeded.
	Pass bool `json:"pass"`

	// Kind and Message describe the failure; empty when Pass is true.
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`

	// Energy is the comparison report. Nil when the check stopped before
	// the comparison or a result file could not be loaded.
	Energy *energy.Report `json:"energy,omitempty"`

	// OutputDigest is the content digest of the run summary.
	OutputDigest string `json:"output_digest,omitempty"`
}

func (r *Result) fail(kind Kind, err error) (*Result, error) {
	r.Pass = false
	r.Kind = kind
	r.Message = err.Error()
	return r, err
}
