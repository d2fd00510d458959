// Package lock implements cross-process advisory locks backed by files under the cache root.
package lock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultRetryInterval is the pause between two lock attempts.
	DefaultRetryInterval = time.Second

	// DefaultTimeout is how long Lock waits for a contended lock.
	DefaultTimeout = 5 * time.Minute

	openAttempts = 5
)

// Options configures lock acquisition. Zero fields take the defaults.
type Options struct {
	RetryInterval time.Duration
	Timeout       time.Duration
}

// Manager implements ports.LockManager with one lock file per key.
type Manager struct {
	root   string
	opts   Options
	logger ports.Logger
}

var _ ports.LockManager = (*Manager)(nil)

// NewManager creates a Manager storing lock files in <cacheRoot>/locks.
func NewManager(cacheRoot string, logger ports.Logger, opts Options) *Manager {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Manager{root: cacheRoot, opts: opts, logger: logger}
}

// Path returns the lock file used for key.
func (m *Manager) Path(key string) string {
	return domain.LockPath(m.root, fmt.Sprintf("%016x", xxhash.Sum64String(key)))
}

// Lock blocks until the lock for key is held.
// It gives up with domain.ErrLockTimeout once the configured timeout elapses.
func (m *Manager) Lock(ctx context.Context, key string) (ports.Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := m.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockOpenFailed.Error()), "key", key)
	}

	deadline := time.Now().Add(m.opts.Timeout)
	waiting := false
	for {
		f, err := m.open(ctx, path)
		if err != nil {
			return nil, zerr.With(err, "key", key)
		}

		held, err := tryLock(f)
		if err != nil {
			_ = f.Close()
			return nil, zerr.With(zerr.Wrap(err, domain.ErrLockFailed.Error()), "key", key)
		}
		if held {
			if linked(f, path) {
				return &fileLock{key: key, file: f, logger: m.logger}, nil
			}
			// The file was pruned between open and lock.
			_ = unlock(f)
			_ = f.Close()
			continue
		}
		_ = f.Close()

		if !time.Now().Before(deadline) {
			return nil, zerr.With(zerr.With(domain.ErrLockTimeout, "key", key), "timeout", m.opts.Timeout.String())
		}
		if !waiting {
			waiting = true
			m.logger.Debug("waiting for lock", "key", key, "path", path)
		}
		if err := sleep(ctx, m.opts.RetryInterval); err != nil {
			return nil, err
		}
	}
}

// open opens or creates the lock file, retrying a few times when access is denied.
func (m *Manager) open(ctx context.Context, path string) (*os.File, error) {
	var err error
	for attempt := 1; attempt <= openAttempts; attempt++ {
		var f *os.File
		//nolint:gosec // path is derived from the cache root and a key hash
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, domain.FilePerm)
		if err == nil {
			return f, nil
		}
		if !retryableOpenError(err) || attempt == openAttempts {
			break
		}
		if serr := sleep(ctx, m.opts.RetryInterval); serr != nil {
			return nil, serr
		}
	}
	return nil, zerr.With(zerr.Wrap(err, domain.ErrLockOpenFailed.Error()), "path", path)
}

// Locks acquires every distinct key in sorted order.
// When one key cannot be acquired the keys already held are released.
func (m *Manager) Locks(ctx context.Context, keys []string) (ports.Locks, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make(lockSet, 0, len(sorted))
	for _, key := range sorted {
		l, err := m.Lock(ctx, key)
		if err != nil {
			held.Release()
			return nil, err
		}
		held = append(held, l)
	}
	return held, nil
}

// CleanOldLocks deletes lock files not modified for maxAgeDays that nobody holds.
// Files that cannot be inspected or removed are logged and skipped.
func (m *Manager) CleanOldLocks(maxAgeDays int) error {
	dir := domain.LocksDir(m.root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "dir", dir)
	}

	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != "."+domain.LockExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			m.logger.Debug("skipping lock file", "file", entry.Name(), "error", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if m.removeUnheld(filepath.Join(dir, entry.Name())) {
			removed++
		}
	}
	m.logger.Debug("pruned lock files", "dir", dir, "removed", removed)
	return nil
}

func (m *Manager) removeUnheld(path string) bool {
	//nolint:gosec // path comes from listing the locks directory
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		m.logger.Debug("skipping lock file", "path", path, "error", err)
		return false
	}
	held, err := tryLock(f)
	if err != nil || !held {
		_ = f.Close()
		m.logger.Debug("lock file in use", "path", path)
		return false
	}
	if err := removeHeld(f, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("failed to remove lock file", "path", path, "error", err)
		return false
	}
	return true
}

// linked reports whether path still names the open file f.
func linked(f *os.File, path string) bool {
	open, err := f.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(open, current)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type fileLock struct {
	key    string
	logger ports.Logger

	mu   sync.Mutex
	file *os.File
}

func (l *fileLock) Key() string { return l.key }

// Release unlocks and closes the lock file. Later calls do nothing.
func (l *fileLock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	if err := unlock(l.file); err != nil {
		l.logger.Warn("failed to unlock", "key", l.key, "error", err)
	}
	if err := l.file.Close(); err != nil {
		l.logger.Warn("failed to close lock file", "key", l.key, "error", err)
	}
	l.file = nil
}

type lockSet []ports.Lock

// Release releases the members in reverse acquisition order.
func (s lockSet) Release() {
	for i := len(s) - 1; i >= 0; i-- {
		s[i].Release()
	}
}
