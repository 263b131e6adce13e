package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is created in every output directory a run writes into.
const LockFile = ".bioprep.lock"

var ErrLocked = errors.New("output directory is locked by another run")

// lockDir takes the exclusive lock on dir and returns its release function.
func lockDir(dir string) (func(), error) {
	path := filepath.Join(dir, LockFile)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return func() { _ = lock.Unlock() }, nil
}
