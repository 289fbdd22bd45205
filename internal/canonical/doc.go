// Package canonical provides the deterministic JSON encoding used for
// document digests and golden report snapshots.
//
// The encoding follows RFC 8785 where it matters for identity:
//   - Object keys sorted by UTF-16 code units
//   - Strings NFC normalized, no HTML escaping
//   - null is rejected
//
// Unlike RFC 8785 proper, floats are written in Go's shortest round-trip
// form (strconv 'g', -1). Energies are floats, so they cannot be forbidden
// here, and the shortest form is stable across runs on the same platform.
package canonical
