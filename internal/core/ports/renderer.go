package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output.
// It is driven by the telemetry bridge and never by the scheduler directly.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output.
	Stop() error

	// OnPlanEmit is called when the scheduler has assembled the task graph.
	OnPlanEmit(tasks []string, deps map[string][]string, targets []string)

	// OnTaskStart is called when a task span starts.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task span ends.
	// cached reports whether the task was satisfied from the cache.
	OnTaskComplete(spanID string, endTime time.Time, cached bool, err error)
}
