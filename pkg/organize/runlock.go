package organize

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock serializes mutating runs on one root. Execution and rollback take
// the lock up front; a second run against the same root fails fast instead of
// interleaving with a pool that is still draining.
type RunLock struct {
	fl *flock.Flock
}

// AcquireRunLock takes the per-root lock file without blocking.
func AcquireRunLock(root string) (*RunLock, error) {
	fl := flock.New(filepath.Join(root, artifactPrefix+".lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another run is already in progress for %s", root)
	}
	return &RunLock{fl: fl}, nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	return l.fl.Unlock()
}
