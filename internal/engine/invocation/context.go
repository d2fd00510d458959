// Package invocation holds the state shared by every task of one build invocation.
package invocation

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configures an invocation.
type Options struct {
	// CacheRoot is the directory holding results and locks.
	CacheRoot string
	// UseCached allows cache entries to satisfy tasks.
	UseCached bool
	// Parallelism bounds the number of tasks running at once. Zero means NumCPU.
	Parallelism int
}

// Services are the adapters an invocation works with.
type Services struct {
	Locks     ports.LockManager
	States    ports.StateStore
	Artifacts ports.ArtifactResolver
	Hasher    ports.Hasher
	Logger    ports.Logger
}

// Context is the per-invocation implementation of task.Context.
type Context struct {
	opts     Options
	services Services
	runID    string
	tasks    map[string]*task.Task
	order    []string
	now      func() time.Time
}

var _ task.Context = (*Context)(nil)

// New validates the tasks and creates the invocation context.
func New(opts Options, tasks []*task.Task, services Services) (*Context, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	c := &Context{
		opts:     opts,
		services: services,
		runID:    uuid.NewString(),
		tasks:    make(map[string]*task.Task, len(tasks)),
		order:    make([]string, 0, len(tasks)),
		now:      time.Now,
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.tasks[t.Name()]; exists {
			return nil, zerr.With(domain.ErrTaskAlreadyExists, "task", t.Name())
		}
		c.tasks[t.Name()] = t
		c.order = append(c.order, t.Name())
	}
	return c, nil
}

// RunID identifies the invocation in logs and traces.
func (c *Context) RunID() string { return c.runID }

// CacheRoot returns the cache root directory.
func (c *Context) CacheRoot() string { return c.opts.CacheRoot }

// Parallelism returns the task concurrency limit.
func (c *Context) Parallelism() int { return c.opts.Parallelism }

// Task looks up a task by name.
func (c *Context) Task(name string) (*task.Task, error) {
	t, ok := c.tasks[name]
	if !ok {
		return nil, zerr.With(domain.ErrTaskNotFound, "task", name)
	}
	return t, nil
}

// Tasks returns every task in registration order.
func (c *Context) Tasks() []*task.Task {
	out := make([]*task.Task, len(c.order))
	for i, name := range c.order {
		out[i] = c.tasks[name]
	}
	return out
}

// Executed reports whether the named task has been satisfied.
func (c *Context) Executed(name string) (bool, error) {
	t, err := c.Task(name)
	if err != nil {
		return false, err
	}
	return t.Executed(), nil
}

// OutputPath returns the cache path of an output of an executed task.
func (c *Context) OutputPath(name, output string) (string, error) {
	t, err := c.Task(name)
	if err != nil {
		return "", err
	}
	return t.OutputPath(c, output)
}

// ResolveArtifact resolves a manifest line relative to base.
func (c *Context) ResolveArtifact(base, notation string) (string, error) {
	return c.services.Artifacts.Resolve(base, notation)
}

// HashFile returns the content hash of a file.
func (c *Context) HashFile(path string) (string, error) {
	return c.services.Hasher.HashFile(path)
}

// TaskDir returns <cacheRoot>/results/<name>.<referenceHash>.
func (c *Context) TaskDir(name, referenceHash string) string {
	return domain.TaskDir(c.opts.CacheRoot, name, referenceHash)
}

// UseCached reports whether cache entries may satisfy tasks.
func (c *Context) UseCached() bool { return c.opts.UseCached }

// States returns the state record store.
func (c *Context) States() ports.StateStore { return c.services.States }

// Locks returns the lock manager.
func (c *Context) Locks() ports.LockManager { return c.services.Locks }

// Logger returns the invocation logger.
func (c *Context) Logger() ports.Logger { return c.services.Logger }

// Now returns the current time.
func (c *Context) Now() time.Time { return c.now() }

// Parallel runs every job with at most Parallelism running at once and waits for all of them.
// A failing job does not cancel the others. The returned error joins every failure.
func (c *Context) Parallel(ctx context.Context, jobs []func(ctx context.Context) error) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(c.opts.Parallelism)
	for _, job := range jobs {
		g.Go(func() error {
			if err := job(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
