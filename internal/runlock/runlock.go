// Package runlock serializes batch runs that share a scratch directory.
//
// Temporary decode artifacts are owned per job, but two concurrent batches
// pointed at the same scratch directory could still collide on cleanup, so a
// run takes an advisory file lock for its duration.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".flacsmith.lock"

// Lock is a held scratch-directory lock.
type Lock struct {
	lock *flock.Flock
	path string
}

// Acquire takes the scratch-directory lock without blocking. A second batch
// against the same directory fails immediately instead of interleaving.
func Acquire(scratchDir string) (*Lock, error) {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	path := filepath.Join(scratchDir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock scratch directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("scratch directory %s is in use by another run", scratchDir)
	}
	return &Lock{lock: lock, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
