// Package task wraps concrete task kinds with hashing, caching and state recording.
package task

import (
	"context"
	"io"
	"time"

	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/input"
)

// DefaultCacheVersion is used for kinds that do not implement Versioned.
const DefaultCacheVersion = 1

// Kind is a concrete unit of work with typed inputs and named outputs.
type Kind interface {
	// Name is unique within an invocation.
	Name() string
	// Type names the kind. It is part of both task hashes.
	Type() string
	// Inputs returns the declared inputs. Names must be unique.
	Inputs() []input.HashableInput
	// OutputTypes maps every output name to its file extension.
	OutputTypes() map[string]string
	// Run produces every declared output.
	Run(ctx context.Context, rc RunContext) error
}

// Versioned lets a kind invalidate its earlier cache entries.
type Versioned interface {
	CacheVersion() int
}

// Freshness lets a kind expire a cache entry that otherwise matches.
type Freshness interface {
	UpToDate(lastExecuted time.Time, c Context) (bool, error)
}

// Context is what a task needs from the invocation running it.
type Context interface {
	input.Env
	// Task looks up a task of the invocation by name.
	Task(name string) (*Task, error)
	// TaskDir returns the cache directory for a task name and reference hash.
	TaskDir(name, referenceHash string) string
	// UseCached reports whether cache entries may satisfy a task.
	UseCached() bool
	// States returns the state record store.
	States() ports.StateStore
	// Logger returns the invocation logger.
	Logger() ports.Logger
	// Now returns the current time.
	Now() time.Time
}

// RunContext is handed to Kind.Run. Kinds never compute cache paths themselves.
type RunContext interface {
	// OutputPath returns where the named output must be written.
	OutputPath(output string) (string, error)
	// InputPath returns the file behind a file or task output input.
	InputPath(name string) (string, error)
	// InputPaths returns every file behind a file-backed input, in order.
	InputPaths(name string) ([]string, error)
	// Value returns the value of a value input.
	Value(name string) (any, error)
	// Logger returns the invocation logger.
	Logger() ports.Logger
	// Stdout receives the task's console output.
	Stdout() io.Writer
}
