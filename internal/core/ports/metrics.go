package ports

import "time"

// Metrics records run statistics.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// TaskExecuted counts a task whose Run was called.
	TaskExecuted(task string, d time.Duration)
	// TaskCached counts a task satisfied from the cache.
	TaskCached(task string)
	// TaskFailed counts a failed task.
	TaskFailed(task string)
	// LockWaited records how long acquiring a task lock took.
	LockWaited(d time.Duration)
	// WriteTo exports the collected metrics in the Prometheus text format to path.
	WriteTo(path string) error
}
