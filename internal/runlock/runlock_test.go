package runlock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestTryAcquireIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gainhound.lock")

	first := New(path)
	ok, err := first.TryAcquire()
	if err != nil {
		t.Fatalf("first TryAcquire: %v", err)
	}
	if !ok {
		t.Fatal("first acquisition must succeed")
	}

	second := New(path)
	ok, err = second.TryAcquire()
	if err != nil {
		t.Fatalf("second TryAcquire: %v", err)
	}
	if ok {
		t.Fatal("second acquisition must fail while the first holds the lock")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, err = second.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire after release: %v", err)
	}
	if !ok {
		t.Fatal("lock must be acquirable after release")
	}
	if err := second.Release(); err != nil {
		t.Fatalf("release second: %v", err)
	}
}

func TestTryAcquireWritesHolderPid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gainhound.lock")
	lock := New(path)
	ok, err := lock.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("TryAcquire: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = lock.Release() })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		t.Fatalf("lock file empty")
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid != os.Getpid() {
		t.Fatalf("expected own pid in lock file, got %q", string(data))
	}
}

func TestReleaseWithoutAcquireIsNoop(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "gainhound.lock"))
	if err := lock.Release(); err != nil {
		t.Fatalf("Release on unheld lock: %v", err)
	}
}

func TestTryAcquireCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "gainhound.lock")
	lock := New(path)
	ok, err := lock.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if !ok {
		t.Fatal("expected acquisition to succeed")
	}
	_ = lock.Release()
}
