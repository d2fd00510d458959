package ports

import "context"

//go:generate mockgen -source=lock.go -destination=mocks/mock_lock.go -package=mocks

// Lock is a held cross-process lock on a named resource.
type Lock interface {
	// Key returns the resource name the lock was acquired for.
	Key() string
	// Release unlocks and closes the lock file. Failures are logged, not returned.
	// Releasing an already released lock does nothing.
	Release()
}

// Locks is a set of locks acquired together and released together.
type Locks interface {
	Release()
}

// LockManager hands out advisory locks backed by files under the cache root.
type LockManager interface {
	// Lock blocks until the lock for key is held, the timeout elapses or ctx is done.
	Lock(ctx context.Context, key string) (Lock, error)

	// Locks acquires every key, in a deterministic order, as one handle.
	Locks(ctx context.Context, keys []string) (Locks, error)

	// CleanOldLocks deletes unheld lock files older than maxAgeDays.
	CleanOldLocks(maxAgeDays int) error
}
