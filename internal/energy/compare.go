package energy

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/testis/internal/resultdoc"
)

// DefaultAccuracy is the absolute tolerance used by the cc4s regression cases.
const DefaultAccuracy = 1e-7

var (
	// ErrNoEnergies is returned when the reference holds no energies, which
	// would otherwise make every comparison pass vacuously.
	ErrNoEnergies = errors.New("reference contains no energies")

	// ErrInvalidAccuracy is returned for negative or non-finite accuracies.
	ErrInvalidAccuracy = errors.New("accuracy must be a finite non-negative number")
)

// Status classifies one compared energy.
type Status string

// Entry statuses.
const (
	StatusOK               Status = "ok"
	StatusMismatch         Status = "mismatch"
	StatusMissingActual    Status = "missing_actual"
	StatusMissingReference Status = "missing_reference"
)

// Entry is the comparison of a single energy path.
// Reference or Actual is nil when the path is absent from that document.
// Deviation is nil unless both values are present and finite.
type Entry struct {
	Key       string   `json:"key"`
	Reference *float64 `json:"reference,omitempty"`
	Actual    *float64 `json:"actual,omitempty"`
	Deviation *float64 `json:"deviation,omitempty"`
	Status    Status   `json:"status"`
}

// MarshalJSON writes non-finite energies as the strings "NaN", "+Inf" and
// "-Inf", which JSON numbers cannot hold.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key       string `json:"key"`
		Reference any    `json:"reference,omitempty"`
		Actual    any    `json:"actual,omitempty"`
		Deviation any    `json:"deviation,omitempty"`
		Status    Status `json:"status"`
	}{
		Key:       e.Key,
		Reference: jsonFloat(e.Reference),
		Actual:    jsonFloat(e.Actual),
		Deviation: jsonFloat(e.Deviation),
		Status:    e.Status,
	})
}

func jsonFloat(f *float64) any {
	switch {
	case f == nil:
		return nil
	case math.IsNaN(*f) || math.IsInf(*f, 0):
		return strconv.FormatFloat(*f, 'g', -1, 64)
	}
	return *f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Report is the outcome of comparing two energy sets.
type Report struct {
	Accuracy     float64 `json:"accuracy"`
	Entries      []Entry `json:"entries"`
	MaxDeviation float64 `json:"max_deviation"`

	// Document digests, set by CompareFiles.
	ReferenceDigest string `json:"reference_digest,omitempty"`
	ActualDigest    string `json:"actual_digest,omitempty"`
}

// Pass reports whether every entry agrees.
func (r *Report) Pass() bool {
	for _, e := range r.Entries {
		if e.Status != StatusOK {
			return false
		}
	}
	return true
}

// Failures returns the entries that do not agree, in key order.
func (r *Report) Failures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status != StatusOK {
			out = append(out, e)
		}
	}
	return out
}

// MismatchError is returned when energies disagree.
// It lists every offending path, not just the first.
type MismatchError struct {
	Reference string
	Actual    string
	Accuracy  float64
	Failures  []Entry
}

func (e *MismatchError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "energies in %s deviate from %s (accuracy %g):", e.Actual, e.Reference, e.Accuracy)
	for _, f := range e.Failures {
		switch f.Status {
		case StatusMissingActual:
			fmt.Fprintf(&buf, "\n  %s: missing from %s", f.Key, e.Actual)
		case StatusMissingReference:
			fmt.Fprintf(&buf, "\n  %s: missing from %s", f.Key, e.Reference)
		default:
			if f.Deviation == nil {
				fmt.Fprintf(&buf, "\n  %s: reference %.12g, actual %.12g, not finite",
					f.Key, *f.Reference, *f.Actual)
				continue
			}
			fmt.Fprintf(&buf, "\n  %s: reference %.12g, actual %.12g, deviation %.3g",
				f.Key, *f.Reference, *f.Actual, *f.Deviation)
		}
	}
	return buf.String()
}

// ValidateAccuracy rejects tolerances that cannot be compared against.
func ValidateAccuracy(accuracy float64) error {
	if math.IsNaN(accuracy) || math.IsInf(accuracy, 0) || accuracy < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAccuracy, accuracy)
	}
	return nil
}

// Compare matches reference and actual energies by path.
// Entries are sorted by key.
func Compare(reference, actual Set, accuracy float64) *Report {
	keys := reference.Keys()
	for k := range actual {
		if _, ok := reference[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	report := &Report{
		Accuracy: accuracy,
		Entries:  make([]Entry, 0, len(keys)),
	}

	var refs, acts []float64
	for _, k := range keys {
		ref, inRef := reference[k]
		act, inAct := actual[k]

		entry := Entry{Key: k}
		switch {
		case !inAct:
			entry.Reference = &ref
			entry.Status = StatusMissingActual
		case !inRef:
			entry.Actual = &act
			entry.Status = StatusMissingReference
		case !finite(ref) || !finite(act):
			// Non-finite pairs never agree, +Inf with +Inf included.
			entry.Reference = &ref
			entry.Actual = &act
			entry.Status = StatusMismatch
		default:
			dev := math.Abs(ref - act)
			entry.Reference = &ref
			entry.Actual = &act
			entry.Deviation = &dev
			if scalar.EqualWithinAbs(ref, act, accuracy) {
				entry.Status = StatusOK
			} else {
				entry.Status = StatusMismatch
			}
			refs = append(refs, ref)
			acts = append(acts, act)
		}
		report.Entries = append(report.Entries, entry)
	}

	if len(refs) > 0 {
		report.MaxDeviation = floats.Distance(refs, acts, math.Inf(1))
	}
	return report
}

// CompareFiles loads two result documents and compares their energies.
//
// Load failures return a nil report. Disagreement returns the full report
// together with a *MismatchError.
func CompareFiles(referencePath, actualPath string, accuracy float64) (*Report, error) {
	if err := ValidateAccuracy(accuracy); err != nil {
		return nil, err
	}

	refDoc, err := resultdoc.ReadYAML(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference: %w", err)
	}
	actDoc, err := resultdoc.ReadYAML(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load actual: %w", err)
	}

	reference := Extract(refDoc)
	if len(reference) == 0 {
		return nil, fmt.Errorf("%s: %w", referencePath, ErrNoEnergies)
	}

	report := Compare(reference, Extract(actDoc), accuracy)

	// Documents holding non-finite floats have no canonical form and are
	// left without a digest.
	report.ReferenceDigest, _ = refDoc.Digest()
	report.ActualDigest, _ = actDoc.Digest()

	if !report.Pass() {
		return report, &MismatchError{
			Reference: referencePath,
			Actual:    actualPath,
			Accuracy:  accuracy,
			Failures:  report.Failures(),
		}
	}
	return report, nil
}

// CompareEnergies checks that the energies in actualPath agree with those in
// referencePath within accuracy.
func CompareEnergies(referencePath, actualPath string, accuracy float64) error {
	_, err := CompareFiles(referencePath, actualPath, accuracy)
	return err
}
