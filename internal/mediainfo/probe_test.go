package mediainfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeRejectsNonAudioContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-audio.mp3")
	if err := os.WriteFile(path, []byte("plain text, no tags"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Probe(path); err == nil {
		t.Fatal("expected probe failure for non-audio content")
	}
}

func TestProbeParsesID3v1Tail(t *testing.T) {
	// Minimal ID3v1: 128-byte trailer starting with "TAG".
	trailer := make([]byte, 128)
	copy(trailer, "TAG")
	copy(trailer[3:], "Song Title")
	copy(trailer[33:], "Artist Name")
	copy(trailer[63:], "Album Name")

	path := filepath.Join(t.TempDir(), "tagged.mp3")
	body := append(make([]byte, 512), trailer...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Title != "Song Title" || info.Artist != "Artist Name" {
		t.Fatalf("unexpected tags: %+v", info)
	}
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := Probe(filepath.Join(t.TempDir(), "absent.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDescribe(t *testing.T) {
	if got := (TrackInfo{Artist: "A", Title: "T"}).Describe("x.mp3"); got != "A - T" {
		t.Fatalf("unexpected description: %q", got)
	}
	if got := (TrackInfo{Title: "T"}).Describe("x.mp3"); got != "T" {
		t.Fatalf("unexpected description: %q", got)
	}
	if got := (TrackInfo{}).Describe("x.mp3"); got != "x.mp3" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
