// Package energy compares the energies of two cc4s result documents.
//
// An energy is any numeric leaf stored beneath a mapping key whose name
// contains "energy" (case-insensitive). Each one is identified by its dotted
// path through the document, with sequence indices as path segments. Dots
// and backslashes inside a mapping key are escaped with a backslash, so the
// key "a.b" yields the segment a\.b rather than two segments:
//
//	steps:
//	  - name: CoupledCluster
//	    out:
//	      energy:
//	        correlation: -0.1234   # steps.0.out.energy.correlation
//
// Two documents agree when they hold the same set of energy paths and every
// pair is within an absolute accuracy, boundary inclusive:
//
//	|reference - actual| <= accuracy
//
// NaN and infinities never agree with anything, themselves included.
package energy
