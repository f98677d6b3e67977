package ledger

import (
	"reflect"
	"testing"
)

func entriesFor(lines ...string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseLine(line))
	}
	return entries
}

func TestSelectAppliesThresholdInclusively(t *testing.T) {
	entries := entriesFor(
		"t1\t/music/loud.mp3\t5.00",
		"t2\t/music/quiet.mp3\t4.99",
		"t3\t/music/negative.mp3\t-5.10",
	)

	got := Select(entries, 5.0, []string{".mp3"})
	want := []Candidate{
		{Path: "/music/loud.mp3", Gain: 5.0},
		{Path: "/music/negative.mp3", Gain: -5.1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Select: got %v want %v", got, want)
	}
}

func TestSelectFiltersExtensionsCaseInsensitively(t *testing.T) {
	entries := entriesFor(
		"t1\t/music/a.MP3\t6.0",
		"t2\t/music/b.flac\t6.0",
		"t3\t/music/c\t6.0",
	)

	got := Select(entries, 5.0, []string{".mp3"})
	if len(got) != 1 || got[0].Path != "/music/a.MP3" {
		t.Fatalf("unexpected selection: %v", got)
	}
}

func TestSelectSkipsOpaqueAndUnparseableEntries(t *testing.T) {
	entries := entriesFor(
		"malformed",
		"t1\t/music/a.mp3\tnot-a-number",
		"t2\t/music/b.mp3\t8.0",
	)

	got := Select(entries, 5.0, []string{".mp3"})
	if len(got) != 1 || got[0].Path != "/music/b.mp3" {
		t.Fatalf("unexpected selection: %v", got)
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	entries := entriesFor(
		"t1\t/music/a.mp3\t6.0",
		"t2\t/music/b.mp3\t7.0",
	)
	first := Select(entries, 5.0, []string{".mp3"})
	second := Select(entries, 5.0, []string{".mp3"})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("selection not idempotent: %v vs %v", first, second)
	}
}

func TestCap(t *testing.T) {
	candidates := []Candidate{{Path: "a"}, {Path: "b"}, {Path: "c"}}

	if got := Cap(candidates, 0); len(got) != 3 {
		t.Fatalf("cap 0 must keep all, got %v", got)
	}
	if got := Cap(candidates, 5); len(got) != 3 {
		t.Fatalf("cap above length must keep all, got %v", got)
	}
	got := Cap(candidates, 2)
	if len(got) != 2 || got[0].Path != "a" || got[1].Path != "b" {
		t.Fatalf("cap must keep the prefix, got %v", got)
	}
}
