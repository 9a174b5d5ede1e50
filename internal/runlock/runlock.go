// Package runlock keeps two runs from writing the same data dir at once.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const FileName = "impactjobs.lock"

var ErrLocked = errors.New("another run holds the lock")

type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock in dataDir without waiting.
func Acquire(dataDir string) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("runlock mkdir: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, FileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("runlock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", fl.Path(), ErrLocked)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
