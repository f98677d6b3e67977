// Package mediainfo inspects encoded audio files by parsing their metadata
// tags. The remediation worker uses it as a sanity check on freshly encoded
// output before the original file is replaced; a probe failure is a warning,
// not a veto.
package mediainfo

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// TrackInfo is the subset of tag metadata surfaced in log lines.
type TrackInfo struct {
	Artist string
	Title  string
	Album  string
}

// Probe opens the file and parses its metadata tags. An error means the file
// does not look like tagged audio at all.
func Probe(path string) (TrackInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("parse media tags: %w", err)
	}
	return TrackInfo{
		Artist: meta.Artist(),
		Title:  meta.Title(),
		Album:  meta.Album(),
	}, nil
}

// Describe renders the probe result for logs, falling back to the base name
// when tags are empty.
func (t TrackInfo) Describe(fallback string) string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return fallback
	}
}
