package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the destination to serialize runs.
const LockFileName = ".dirtag.lock"

// lockRetryDelay is how often a blocked Lock retries.
const lockRetryDelay = 100 * time.Millisecond

// DestinationLock guards a destination tree against concurrent runs.
type DestinationLock struct {
	flock *flock.Flock
	path  string
}

// NewDestinationLock creates the lock for the site's destination. The
// destination directory is created if needed.
func NewDestinationLock(s *Site) (*DestinationLock, error) {
	if err := os.MkdirAll(s.destination, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination %s: %w", s.destination, err)
	}

	path := filepath.Join(s.destination, LockFileName)
	return &DestinationLock{
		flock: flock.New(path),
		path:  path,
	}, nil
}

// Lock blocks until the lock is acquired or ctx is done.
func (l *DestinationLock) Lock(ctx context.Context) error {
	locked, err := l.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s", l.path)
	}
	return nil
}

// TryLock acquires the lock without blocking. It returns false when another
// run holds it.
func (l *DestinationLock) TryLock() (bool, error) {
	locked, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	return locked, nil
}

// Unlock releases the lock.
func (l *DestinationLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
