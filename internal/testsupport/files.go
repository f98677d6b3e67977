package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTrack drops a file with the given content into dir and returns its path.
func WriteTrack(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write track %s: %v", path, err)
	}
	return path
}

// SeedLedger writes the given lines, newline-terminated, to the ledger path.
func SeedLedger(t testing.TB, path string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed ledger %s: %v", path, err)
	}
}

// StubBinary installs an executable shell script and returns its path.
func StubBinary(t testing.TB, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if !strings.HasPrefix(script, "#!") {
		script = "#!/bin/sh\n" + script
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
	return path
}
