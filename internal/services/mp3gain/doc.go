// Package mp3gain invokes the external mp3gain tool to delete APEv2
// loudness-adjustment tags from a re-encoded file. Failures here are
// best-effort by contract: callers log and continue.
package mp3gain
