package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Reference energies of the UEG rs1.0-7occ-26virt fixture, in Hartree.
const (
	Correlation = -0.0347210893
	Direct      = -0.0512345678
	Exchange    = 0.0165134785
)

// RunSummary returns a cc4s.out body with the given dryRun value.
func RunSummary(dryRun any) string {
	return fmt.Sprintf(`version: "1.0.0"
dryRun: %v
steps:
  - name: Read
    in:
      fileName: CoulombVertex.yaml
  - name: CoupledCluster
    in:
      method: Ccsd
`, dryRun)
}

// EnergyResults returns a cc4s.out.yaml body holding a CoupledCluster step
// with the given energies.
func EnergyResults(correlation, direct, exchange float64) string {
	return fmt.Sprintf(`steps:
  - name: Read
    out:
      coulombVertex: CoulombVertex.yaml
  - name: CoupledCluster
    out:
      energy:
        correlation: %.12g
        direct: %.12g
        exchange: %.12g
        unit: Hartree
`, correlation, direct, exchange)
}

// ReferenceResults returns EnergyResults at the reference energies.
func ReferenceResults() string {
	return EnergyResults(Correlation, Direct, Exchange)
}

// WriteFiles writes name -> content pairs into dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// PassingCase creates a case directory whose check succeeds and returns it.
func PassingCase(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "rs1.0-7occ-26virt")
	WriteFiles(t, dir, map[string]string{
		"cc4s.out":         RunSummary(0),
		"correct.out.yaml": ReferenceResults(),
		"cc4s.out.yaml":    ReferenceResults(),
	})
	return dir
}
