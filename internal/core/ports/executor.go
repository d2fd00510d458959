package ports

import (
	"context"
	"io"
)

// Command describes a process to run for a command task.
type Command struct {
	Args       []string
	Env        []string
	WorkingDir string
}

// Executor defines the interface for executing commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and waits for it to finish.
	// Output is streamed to out. A non-zero exit status is returned as an error.
	Execute(ctx context.Context, cmd Command, out io.Writer) error
}
