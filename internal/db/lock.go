package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockFileName       = "db.lock"
	defaultLockTimeout = 500 * time.Millisecond
	lockInitialBackoff = 5 * time.Millisecond
	lockMaxBackoff     = 50 * time.Millisecond
)

// writeLocker serializes writes across processes using an OS file lock.
// The lock is released automatically if the holding process dies.
type writeLocker struct {
	lockPath string
	lockFile *os.File
}

func newWriteLocker(baseDir string) *writeLocker {
	return &writeLocker{lockPath: filepath.Join(baseDir, lockFileName)}
}

// acquire obtains the exclusive lock, retrying with backoff until timeout.
func (l *writeLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	deadline := time.Now().Add(timeout)
	backoff := lockInitialBackoff
	for {
		if err := l.tryLock(); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			l.lockFile.Close()
			l.lockFile = nil
			return fmt.Errorf("write lock timeout after %v (another vust process may be writing)", timeout)
		}
		time.Sleep(backoff)
		if backoff < lockMaxBackoff {
			backoff *= 2
			if backoff > lockMaxBackoff {
				backoff = lockMaxBackoff
			}
		}
	}
}

func (l *writeLocker) release() {
	if l.lockFile == nil {
		return
	}
	l.unlock()
	l.lockFile.Close()
	l.lockFile = nil
}
