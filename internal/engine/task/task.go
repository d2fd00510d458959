package task

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"io"
	"os"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/zerr"
)

// Outcome describes how Execute satisfied a task.
type Outcome int

const (
	// OutcomeExecuted means the task ran.
	OutcomeExecuted Outcome = iota
	// OutcomeCached means a matching cache entry was reused.
	OutcomeCached
	// OutcomeAlreadyExecuted means the task had already been satisfied in this invocation.
	OutcomeAlreadyExecuted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeExecuted:
		return "executed"
	case OutcomeCached:
		return "cached"
	case OutcomeAlreadyExecuted:
		return "already executed"
	default:
		return "unknown"
	}
}

// Task wraps a Kind with memoized hashes and the execute-or-reuse lifecycle.
type Task struct {
	kind         Kind
	dependencies []string

	mu            sync.Mutex
	referenceHash string
	contentsHash  string

	executed atomic.Bool
}

// New wraps a kind.
func New(k Kind) *Task {
	return &Task{
		kind:         k,
		dependencies: input.Dependencies(k.Inputs()),
	}
}

// Name returns the task name.
func (t *Task) Name() string { return t.kind.Name() }

// Kind returns the wrapped kind.
func (t *Task) Kind() Kind { return t.kind }

// Executed reports whether the task has been satisfied in this invocation.
func (t *Task) Executed() bool { return t.executed.Load() }

// Dependencies returns the tasks this task reads outputs of, without duplicates.
func (t *Task) Dependencies() []string { return slices.Clone(t.dependencies) }

// CacheVersion returns the kind's cache version.
func (t *Task) CacheVersion() int {
	if v, ok := t.kind.(Versioned); ok {
		return v.CacheVersion()
	}
	return DefaultCacheVersion
}

// Validate checks the task name, output names and extensions, and input name uniqueness.
func (t *Task) Validate() error {
	if err := domain.ValidateTaskName(t.Name()); err != nil {
		return err
	}
	for output, ext := range t.kind.OutputTypes() {
		if err := domain.ValidateOutputName(output); err != nil {
			return zerr.With(err, "task", t.Name())
		}
		if err := domain.ValidateOutputName(ext); err != nil {
			return zerr.With(zerr.With(err, "task", t.Name()), "extension", ext)
		}
	}
	seen := make(map[string]struct{}, len(t.kind.Inputs()))
	for _, in := range t.kind.Inputs() {
		if _, dup := seen[in.Name()]; dup {
			return zerr.With(zerr.With(domain.ErrInvalidInput, "task", t.Name()), "input", in.Name())
		}
		seen[in.Name()] = struct{}{}
	}
	return nil
}

// ReferenceHash returns the hash selecting the task's cache directory.
// It covers the type, the cache version and every input's reference in declared order.
func (t *Task) ReferenceHash(c Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.referenceHash != "" {
		return t.referenceHash, nil
	}

	h := t.newHash()
	for _, in := range t.kind.Inputs() {
		input.WriteString(h, in.Name())
		if err := in.HashReference(c, h); err != nil {
			return "", zerr.With(zerr.With(err, "task", t.Name()), "input", in.Name())
		}
	}
	t.referenceHash = hex.EncodeToString(h.Sum(nil))
	return t.referenceHash, nil
}

// ContentsHash returns the hash selecting the cache entry inside the task directory.
// It covers the type, the cache version and every input's contents sorted by input name.
// Every dependency must have executed.
func (t *Task) ContentsHash(c Context) (string, error) {
	if err := t.checkDependencies(c); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.contentsHash != "" {
		return t.contentsHash, nil
	}

	inputs := slices.Clone(t.kind.Inputs())
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].Name() < inputs[j].Name() })

	h := t.newHash()
	for _, in := range inputs {
		input.WriteString(h, in.Name())
		if err := in.HashContents(c, h); err != nil {
			return "", zerr.With(zerr.With(err, "task", t.Name()), "input", in.Name())
		}
	}
	t.contentsHash = hex.EncodeToString(h.Sum(nil))
	return t.contentsHash, nil
}

func (t *Task) newHash() hash.Hash {
	h := sha256.New()
	input.WriteString(h, t.kind.Type())
	input.WriteCount(h, t.CacheVersion())
	return h
}

func (t *Task) checkDependencies(c Context) error {
	for _, dep := range t.dependencies {
		executed, err := c.Executed(dep)
		if err != nil {
			return zerr.With(err, "task", t.Name())
		}
		if !executed {
			return zerr.With(zerr.With(domain.ErrDependencyNotExecuted, "task", t.Name()), "dependency", dep)
		}
	}
	return nil
}

// OutputPath returns the cache path of a declared output. The task must have executed.
func (t *Task) OutputPath(c Context, output string) (string, error) {
	ext, ok := t.kind.OutputTypes()[output]
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrUnknownOutput, "task", t.Name()), "output", output)
	}
	if !t.Executed() {
		return "", zerr.With(domain.ErrDependencyNotExecuted, "task", t.Name())
	}
	dir, contents, err := t.location(c)
	if err != nil {
		return "", err
	}
	return domain.OutputPath(dir, contents, output, ext), nil
}

func (t *Task) location(c Context) (dir, contents string, err error) {
	ref, err := t.ReferenceHash(c)
	if err != nil {
		return "", "", err
	}
	contents, err = t.ContentsHash(c)
	if err != nil {
		return "", "", err
	}
	return c.TaskDir(t.Name(), ref), contents, nil
}

// Execute satisfies the task, from the cache when a valid entry exists, otherwise by running it.
// stdout receives the kind's console output and may be nil.
func (t *Task) Execute(ctx context.Context, c Context, stdout io.Writer) (Outcome, error) {
	if t.Executed() {
		return OutcomeAlreadyExecuted, nil
	}
	if err := t.checkDependencies(c); err != nil {
		return OutcomeExecuted, err
	}

	dir, contents, err := t.location(c)
	if err != nil {
		return OutcomeExecuted, zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", t.Name())
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return OutcomeExecuted, zerr.With(zerr.Wrap(err, domain.ErrCacheDirCreateFailed.Error()), "path", dir)
	}
	statePath := domain.StatePath(dir, contents)

	snapshot, err := t.snapshot(c)
	if err != nil {
		return OutcomeExecuted, zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", t.Name())
	}

	if c.UseCached() {
		hit, err := t.checkCache(c, dir, contents, statePath, snapshot)
		if err != nil {
			c.Logger().Warn(domain.ErrCacheCheckFailed.Error(), "task", t.Name(), "error", err.Error())
		}
		if hit {
			t.executed.Store(true)
			return OutcomeCached, nil
		}
	}

	if err := t.run(ctx, c, dir, contents, statePath, snapshot, stdout); err != nil {
		return OutcomeExecuted, zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", t.Name())
	}
	t.executed.Store(true)
	return OutcomeExecuted, nil
}

func (t *Task) checkCache(c Context, dir, contents, statePath string, snapshot json.RawMessage) (bool, error) {
	rec, err := c.States().Get(statePath)
	if err != nil || rec == nil {
		return false, err
	}

	for output, ext := range t.kind.OutputTypes() {
		want, ok := rec.Hashes[output]
		if !ok {
			c.Logger().Debug("cache entry lacks output", "task", t.Name(), "output", output)
			return false, nil
		}
		got, err := c.HashFile(domain.OutputPath(dir, contents, output, ext))
		if err != nil {
			return false, zerr.With(err, "output", output)
		}
		if got != want {
			c.Logger().Debug("cached output changed", "task", t.Name(), "output", output)
			return false, nil
		}
	}

	if f, ok := t.kind.(Freshness); ok {
		fresh, err := f.UpToDate(rec.LastExecutedTime(), c)
		if err != nil || !fresh {
			return false, err
		}
	}

	same, err := sameSnapshot(rec.Inputs, snapshot)
	if err != nil || !same {
		return false, err
	}

	if err := c.States().Touch(statePath, rec, c.Now().UnixMilli()); err != nil {
		c.Logger().Warn("failed to refresh cache entry access time", "task", t.Name(), "error", err.Error())
	}
	return true, nil
}

func (t *Task) run(
	ctx context.Context, c Context, dir, contents, statePath string, snapshot json.RawMessage, stdout io.Writer,
) error {
	if stdout == nil {
		stdout = io.Discard
	}
	rc := &runContext{task: t, c: c, dir: dir, contents: contents, stdout: stdout}
	if err := t.kind.Run(ctx, rc); err != nil {
		return err
	}

	hashes := make(map[string]string, len(t.kind.OutputTypes()))
	for output, ext := range t.kind.OutputTypes() {
		path := domain.OutputPath(dir, contents, output, ext)
		if _, err := os.Stat(path); err != nil {
			return zerr.With(zerr.With(domain.ErrOutputMissing, "output", output), "path", path)
		}
		hash, err := c.HashFile(path)
		if err != nil {
			return zerr.With(err, "output", output)
		}
		hashes[output] = hash
	}

	now := c.Now().UnixMilli()
	return c.States().Put(statePath, &domain.StateRecord{
		Inputs:       snapshot,
		Hashes:       hashes,
		LastAccessed: now,
		LastExecuted: now,
	})
}
