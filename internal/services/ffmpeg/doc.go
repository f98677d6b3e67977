// Package ffmpeg invokes the external ffmpeg encoder to rebuild a track's
// audio stream from scratch while preserving metadata and cover art.
package ffmpeg
