// Package plex is a thin HTTP client for the Plex Media Server endpoints
// Gainhound cares about: listing library sections, submitting scan and
// analyze requests for the music library, and clearing stale track analysis
// data. It sits outside the remediation pipeline; the pipeline only reaches
// Plex indirectly through the configured post-hook command.
package plex
