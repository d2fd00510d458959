//go:build unix

package lock

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// tryLock takes an exclusive flock without blocking.
// It returns false when another open file description holds the lock.
func tryLock(f *os.File) (bool, error) {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}
	return false, err
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// removeHeld unlinks path while f still holds its flock, then releases f.
// A waiter that wins the flock afterwards fails linked and retries on a new file.
func removeHeld(f *os.File, path string) error {
	err := os.Remove(path)
	_ = unlock(f)
	_ = f.Close()
	return err
}

func retryableOpenError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
