// Package runlock enforces at-most-one pipeline instance per host using a
// host-local advisory file lock. Contention is an expected condition under
// frequent scheduling, not an error: callers exit cleanly when the lock is
// already held.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Lock guards a run with a non-blocking exclusive flock on a fixed path.
type Lock struct {
	path string
	lock *flock.Flock
	held bool
}

// New constructs a lock bound to the given file path.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// TryAcquire attempts the exclusive lock without blocking. It returns false
// when another process holds it. On success the holder's pid and a timestamp
// are written into the lock file for operator inspection; that write is
// advisory and never fails the acquisition.
func (l *Lock) TryAcquire() (bool, error) {
	if l.held {
		return true, nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}

	ok, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return false, nil
	}
	l.held = true

	marker := fmt.Sprintf("%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	_ = os.WriteFile(l.path, []byte(marker), 0o644)
	return true, nil
}

// Release drops the lock. Safe to call on every exit path, held or not.
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	return l.lock.Unlock()
}
