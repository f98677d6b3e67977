// Package pipeline runs one remediation batch end to end: acquire the
// single-instance lock, select candidates from the ledger, drive the
// per-candidate worker, and report ok/fail/remaining counts. It owns the
// exit-code contract that scheduler wrappers depend on.
package pipeline
