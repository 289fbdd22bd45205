package check

import (
	"path/filepath"

	"github.com/roach88/testis/internal/energy"
)

// Default file names of a cc4s regression case.
const (
	DefaultOutput    = "cc4s.out"
	DefaultReference = "correct.out.yaml"
	DefaultActual    = "cc4s.out.yaml"
	DefaultDryRunKey = "dryRun"
)

// Case describes one regression check.
// Relative file names are resolved against Dir.
type Case struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Dir         string  `json:"dir"`
	Output      string  `json:"output"`
	Reference   string  `json:"reference"`
	Actual      string  `json:"actual"`
	Accuracy    float64 `json:"accuracy"`
	DryRunKey   string  `json:"dry_run_key"`
}

// DefaultCase returns the standard cc4s case rooted at dir.
func DefaultCase(dir string) Case {
	return Case{
		Name:      caseName(dir),
		Dir:       dir,
		Output:    DefaultOutput,
		Reference: DefaultReference,
		Actual:    DefaultActual,
		Accuracy:  energy.DefaultAccuracy,
		DryRunKey: DefaultDryRunKey,
	}
}

// Path resolves a case file name against the case directory.
func (c Case) Path(name string) string {
	if filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// caseName derives a case name from its directory.
func caseName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return filepath.Base(abs)
}
