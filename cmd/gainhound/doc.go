// Command gainhound re-encodes music files whose recorded loudness gain is
// out of bounds. It is built to run unattended from a scheduler: one instance
// per host, clean exits on contention, and exit codes that tell the wrapper
// what happened.
package main
