// Package ledger reads and compacts the processed-track ledger shared with
// the external loudness scanner.
//
// The ledger is a UTF-8 text file of tab-separated
// "timestamp<TAB>path<TAB>gain" lines in insertion order. Lines with any
// other field count are preserved verbatim across rewrites so unknown future
// formats survive compaction untouched. Removal rewrites the whole file via
// a sibling temp file plus atomic rename; a concurrent reader sees either
// the old ledger or the new one, never a partial write.
package ledger
