// Package remediation drives the per-candidate state machine: re-encode the
// track to a temp sibling, best-effort strip of gain tags, atomic replacement
// of the original, and ledger compaction. Failures are contained to the
// candidate; nothing here can abort the batch.
package remediation
