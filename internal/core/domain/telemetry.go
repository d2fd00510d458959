package domain

import "strings"

// TaskStatus represents the lifecycle state of a task within one run.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is waiting for its dependencies.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task is being executed.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusExecuted indicates the task ran successfully.
	TaskStatusExecuted TaskStatus = "executed"
	// TaskStatusCached indicates a valid cache entry satisfied the task.
	TaskStatusCached TaskStatus = "cached"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Span and attribute names used by the tracer.
const (
	SpanTask          = "tgr.task"
	SpanRun           = "tgr.run"
	AttrTaskName      = "tgr.task_name"
	AttrCached        = "tgr.cached"
	AttrReferenceHash = "tgr.reference_hash"
	AttrRunID         = "tgr.run_id"
)

// IsTerminal checks if a status is a terminal state (Executed, Cached, Failed).
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusExecuted, TaskStatusCached, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeTaskStatus converts a string to a TaskStatus, defaulting to pending if unknown.
func NormalizeTaskStatus(s string) TaskStatus {
	switch strings.ToLower(s) {
	case string(TaskStatusRunning):
		return TaskStatusRunning
	case string(TaskStatusExecuted):
		return TaskStatusExecuted
	case string(TaskStatusCached):
		return TaskStatusCached
	case string(TaskStatusFailed):
		return TaskStatusFailed
	default:
		return TaskStatusPending
	}
}
