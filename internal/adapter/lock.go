package adapter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	m "parity.dev/pkg/parity/internal/model"
)

// LockFileName is created inside the corpus directory while a run owns it.
const LockFileName = ".parity.lock"

// ErrRunLocked is returned when another harness process owns the corpus.
var ErrRunLocked = errors.New("another run is using this corpus directory")

// RunLocker guards a corpus directory against concurrent harness processes.
type RunLocker interface {
	Acquire(dir m.Path) (release func() error, err error)
}

// FileRunLocker takes a non-blocking flock on "<dir>/.parity.lock".
type FileRunLocker struct{}

// NewRunLocker returns a FileRunLocker.
func NewRunLocker() *FileRunLocker {
	return &FileRunLocker{}
}

// Acquire implements RunLocker.
func (l *FileRunLocker) Acquire(dir m.Path) (func() error, error) {
	path := filepath.Join(string(dir), LockFileName)
	lock := flock.New(path)

	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}

	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrRunLocked, path)
	}

	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("failed to release lock on %s: %w", path, err)
		}

		return nil
	}, nil
}
