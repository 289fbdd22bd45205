// Package ledger provides SQLite-backed history of check runs.
//
// Every recorded run gets a row in runs and one row per compared energy in
// energy_deltas. The ledger is append-only: runs are never updated, and
// running a case twice over unchanged files records two identical verdicts
// with identical document digests.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Ordering uses the seq column (insertion order), never recorded_at, so
// history stays stable when wall clocks disagree.
package ledger
