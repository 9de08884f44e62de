package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrLocked is returned when a lock is still held after every retry.
var ErrLocked = errors.New("file is locked")

const (
	lockSuffix        = ".lock"
	defaultAttempts   = 16
	defaultRetryDelay = 250 * time.Millisecond
)

// Locker acquires sidecar lock files: the lock for path is path+".lock",
// created exclusively. Zero values use 16 attempts 250ms apart.
type Locker struct {
	Attempts   int
	RetryDelay time.Duration
}

// FileLock is a held lock. Unlock releases it.
type FileLock struct {
	path string
}

// DefaultLocker is used by the package-level file helpers.
var DefaultLocker = &Locker{}

// Lock acquires the lock for path, waiting between attempts.
func (l *Locker) Lock(ctx context.Context, path string) (*FileLock, error) {
	attempts := l.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := l.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	lockPath := path + lockSuffix
	for i := 0; i < attempts; i++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return &FileLock{path: lockPath}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock %s: %w", lockPath, err)
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrLocked)
}

// Unlock removes the lock file. Unlocking twice is a no-op.
func (f *FileLock) Unlock() error {
	if f == nil || f.path == "" {
		return nil
	}
	err := os.Remove(f.path)
	f.path = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Locked reports whether a lock file currently exists for path.
func Locked(path string) bool {
	_, err := os.Stat(path + lockSuffix)
	return err == nil
}
