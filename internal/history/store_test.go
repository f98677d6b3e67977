package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", time.Now(), false); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.RecordTrack(ctx, "run-1", "/music/a.mp3", 6.2, "remediated", ""); err != nil {
		t.Fatalf("RecordTrack: %v", err)
	}
	if err := store.RecordTrack(ctx, "run-1", "/music/b.mp3", -5.4, "encode-failed", "exit status 1"); err != nil {
		t.Fatalf("RecordTrack: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", 1, 1, 2, 3, "partial"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.OK != 1 || run.Failed != 1 || run.Total != 2 || run.Remaining != 3 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Status != "partial" || run.FinishedAt == "" {
		t.Fatalf("run not finished: %+v", run)
	}

	tracks, err := store.RunTracks(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Path != "/music/a.mp3" || tracks[0].Outcome != "remediated" {
		t.Fatalf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].Detail != "exit status 1" {
		t.Fatalf("expected failure detail, got %+v", tracks[1])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		if err := store.BeginRun(ctx, id, base.Add(time.Duration(i)*time.Minute), true); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "e" || runs[1].ID != "d" {
		t.Fatalf("expected newest first, got %v, %v", runs[0].ID, runs[1].ID)
	}
	if !runs[0].DryRun {
		t.Fatal("expected dry_run flag to round-trip")
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()
}
