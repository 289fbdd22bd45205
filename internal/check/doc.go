// Package check runs a cc4s regression case.
//
// A case directory holds the output of one cc4s run next to the golden
// results it must reproduce:
//
//	cc4s.out          run summary; must report dryRun: 0
//	cc4s.out.yaml     results of the run
//	correct.out.yaml  reference results
//
// The check is a straight line. Any failure aborts it and is returned to the
// caller unrecovered:
//
//  1. Load cc4s.out.
//  2. Require dryRun == 0; otherwise fail with "We should not be doing dryRuns now".
//  3. Compare the energies of correct.out.yaml and cc4s.out.yaml within 1e-7.
//
// # Case Manifest
//
// A case directory may carry a check.yaml (or check.toml) overriding the
// defaults. The manifest is validated against a closed CUE definition, so
// misspelled fields are rejected rather than ignored:
//
//	name: rs1.0-7occ-26virt
//	description: "UEG, rs=1.0, 7 occupied and 26 virtual orbitals"
//	accuracy: 1e-7
//	output: cc4s.out
//	reference: correct.out.yaml
//	actual: cc4s.out.yaml
//	dry_run_key: dryRun
//
// # Usage
//
//	c, err := check.LoadCase("tests/ueg/rs1.0-7occ-26virt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := check.NewRunner(logger).Run(ctx, c)
//	if err != nil {
//	    log.Fatalf("%s: %v", result.Kind, err)
//	}
package check
