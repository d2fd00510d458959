package lock_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/adapters/lock"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newManager(t *testing.T, root string, opts lock.Options) *lock.Manager {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return lock.NewManager(root, logger, opts)
}

func TestLock_AcquireRelease(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := newManager(t, root, lock.Options{})

	l, err := m.Lock(t.Context(), "compile.abc")
	require.NoError(t, err)
	assert.Equal(t, "compile.abc", l.Key())

	want := domain.LockPath(root, fmt.Sprintf("%016x", xxhash.Sum64String("compile.abc")))
	assert.Equal(t, want, m.Path("compile.abc"))
	assert.FileExists(t, want)

	l.Release()
	l.Release()

	again, err := m.Lock(t.Context(), "compile.abc")
	require.NoError(t, err)
	again.Release()
}

func TestLock_Timeout(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	synctest.Test(t, func(t *testing.T) {
		m := newManager(t, root, lock.Options{RetryInterval: time.Second, Timeout: 3 * time.Second})

		held, err := m.Lock(t.Context(), "k")
		require.NoError(t, err)
		defer held.Release()

		start := time.Now()
		_, err = m.Lock(t.Context(), "k")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrLockTimeout.Error())
		assert.Equal(t, 3*time.Second, time.Since(start))

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, "k", zErr.Metadata()["key"])
		assert.Equal(t, "3s", zErr.Metadata()["timeout"])
	})
}

func TestLock_WaitsForRelease(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	synctest.Test(t, func(t *testing.T) {
		m := newManager(t, root, lock.Options{RetryInterval: time.Second, Timeout: time.Minute})

		held, err := m.Lock(t.Context(), "k")
		require.NoError(t, err)

		go func() {
			time.Sleep(2500 * time.Millisecond)
			held.Release()
		}()

		start := time.Now()
		l, err := m.Lock(t.Context(), "k")
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, time.Since(start))
		l.Release()
	})
}

func TestLock_ContextCancel(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	synctest.Test(t, func(t *testing.T) {
		m := newManager(t, root, lock.Options{RetryInterval: time.Second, Timeout: time.Minute})

		held, err := m.Lock(t.Context(), "k")
		require.NoError(t, err)
		defer held.Release()

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(1500 * time.Millisecond)
			cancel()
		}()

		_, err = m.Lock(ctx, "k")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocks_SortedAndDeduplicated(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	synctest.Test(t, func(t *testing.T) {
		m := newManager(t, root, lock.Options{RetryInterval: time.Second, Timeout: time.Second})

		set, err := m.Locks(t.Context(), []string{"b", "a", "b"})
		require.NoError(t, err)

		_, err = m.Lock(t.Context(), "a")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrLockTimeout.Error())

		set.Release()

		l, err := m.Lock(t.Context(), "a")
		require.NoError(t, err)
		l.Release()
		l, err = m.Lock(t.Context(), "b")
		require.NoError(t, err)
		l.Release()
	})
}

func TestLocks_FailureReleasesAcquired(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	synctest.Test(t, func(t *testing.T) {
		m := newManager(t, root, lock.Options{RetryInterval: time.Second, Timeout: time.Second})

		held, err := m.Lock(t.Context(), "b")
		require.NoError(t, err)
		defer held.Release()

		_, err = m.Locks(t.Context(), []string{"a", "b"})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrLockTimeout.Error())

		l, err := m.Lock(t.Context(), "a")
		require.NoError(t, err)
		l.Release()
	})
}

func TestCleanOldLocks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := newManager(t, root, lock.Options{})

	old, err := m.Lock(t.Context(), "old")
	require.NoError(t, err)
	old.Release()

	busy, err := m.Lock(t.Context(), "busy")
	require.NoError(t, err)
	defer busy.Release()

	fresh, err := m.Lock(t.Context(), "fresh")
	require.NoError(t, err)
	fresh.Release()

	stale := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(m.Path("old"), stale, stale))
	require.NoError(t, os.Chtimes(m.Path("busy"), stale, stale))

	other := filepath.Join(domain.LocksDir(root), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o600))
	require.NoError(t, os.Chtimes(other, stale, stale))

	require.NoError(t, m.CleanOldLocks(7))

	assert.NoFileExists(t, m.Path("old"))
	assert.FileExists(t, m.Path("busy"))
	assert.FileExists(t, m.Path("fresh"))
	assert.FileExists(t, other)
}

func TestCleanOldLocks_MissingDir(t *testing.T) {
	t.Parallel()

	m := newManager(t, t.TempDir(), lock.Options{})
	require.NoError(t, m.CleanOldLocks(1))
}
