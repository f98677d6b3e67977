package posthook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gainhound/internal/config"
	"gainhound/internal/logging"
)

func writeHook(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plex_analyze.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func fire(t *testing.T, cfg config.PostHook) {
	t.Helper()
	trigger := New(cfg, logging.NewNop())
	trigger.Fire(context.Background())
}

func TestFireSkipsWhenUnconfigured(t *testing.T) {
	fire(t, config.PostHook{Mode: "synchronous", Timeout: 1})
}

func TestFireSkipsMissingCommand(t *testing.T) {
	fire(t, config.PostHook{
		Command: filepath.Join(t.TempDir(), "absent.sh"),
		Mode:    "synchronous",
		Timeout: 1,
	})
}

func TestSynchronousSuccess(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	hook := writeHook(t, "touch "+marker+"\nexit 0\n")

	fire(t, config.PostHook{Command: hook, Mode: "synchronous", Timeout: 5})

	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
}

func TestSynchronousFailureDoesNotPropagate(t *testing.T) {
	hook := writeHook(t, "echo boom >&2\nexit 7\n")
	// Fire must swallow the non-zero exit.
	fire(t, config.PostHook{Command: hook, Mode: "synchronous", Timeout: 5})
}

func TestSynchronousTimeoutDoesNotPropagate(t *testing.T) {
	hook := writeHook(t, "sleep 5\n")
	start := time.Now()
	trigger := New(config.PostHook{Command: hook, Mode: "synchronous", Timeout: 1}, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	trigger.Fire(ctx)

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("Fire blocked past the deadline: %v", elapsed)
	}
}

func TestBackgroundLaunchReturnsImmediately(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	hook := writeHook(t, "touch "+marker+"\n")

	fire(t, config.PostHook{Command: hook, Mode: "background", Timeout: 1})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("background hook never ran")
}
