package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/inovacc/dcc/internal/encoding"
)

// ErrLocked is returned when another process holds the configuration lock
// for longer than the lock timeout.
var ErrLocked = errors.New("configuration is locked by another process")

const lockPollInterval = 10 * time.Millisecond

// fileLock is an advisory cross-process lock taken with flock on a sidecar
// file. The kernel drops it when the holding process exits.
type fileLock struct {
	flock   *flock.Flock
	timeout time.Duration
}

func newFileLock(path string, timeout time.Duration) *fileLock {
	return &fileLock{flock: flock.New(path), timeout: timeout}
}

func (l *fileLock) acquire() error {
	if err := encoding.EnsureParentDir(l.flock.Path()); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	locked, err := l.flock.TryLockContext(ctx, lockPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLocked
		}

		return fmt.Errorf("failed to lock %s: %w", l.flock.Path(), err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// release unlocks. The lock file itself stays.
func (l *fileLock) release() {
	_ = l.flock.Unlock()
}
