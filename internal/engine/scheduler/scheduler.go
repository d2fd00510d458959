// Package scheduler executes the task graph of a request in waves.
package scheduler

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// Context is what the scheduler needs from an invocation.
type Context interface {
	task.Context
	// Locks returns the lock manager guarding task cache directories.
	Locks() ports.LockManager
	// Parallel runs jobs concurrently and joins their errors.
	Parallel(ctx context.Context, jobs []func(ctx context.Context) error) error
}

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	tracer  ports.Tracer
	metrics ports.Metrics
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(tracer ports.Tracer, metrics ports.Metrics) *Scheduler {
	return &Scheduler{
		tracer:  tracer,
		metrics: metrics,
	}
}

// Run executes every requested task and its dependencies, then copies the
// requested outputs to their destinations.
//
// Each wave runs all tasks whose dependencies have executed. A failing wave
// ends the run after its other tasks finish; every held lock is released
// before Run returns.
func (s *Scheduler) Run(ctx context.Context, c Context, req domain.Request) (*Report, error) {
	state, err := s.newRunState(c, req)
	if err != nil {
		return nil, err
	}

	if err := state.graph.Validate(); err != nil {
		return nil, err
	}

	s.emitPlan(ctx, state, req)

	err = state.runWaves(ctx)
	state.releaseAll()
	report := state.report()
	if err != nil {
		return report, err
	}

	if err := state.checkComplete(); err != nil {
		return report, err
	}
	return report, nil
}

type node struct {
	task       *task.Task
	deps       []*node
	dependents []*node
	copies     map[string]string
	scheduled  bool

	// guarded by runState.mu
	lock     ports.Lock
	refs     int
	released bool
}

type runState struct {
	s     *Scheduler
	c     Context
	graph *domain.Graph
	nodes map[string]*node
	order []string

	mu      sync.Mutex
	results []Result
}

// newRunState collects the requested tasks and their transitive dependencies.
func (s *Scheduler) newRunState(c Context, req domain.Request) (*runState, error) {
	state := &runState{
		s:     s,
		c:     c,
		graph: domain.NewGraph(),
		nodes: make(map[string]*node),
	}

	queue := req.Tasks()
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if _, seen := state.nodes[name]; seen {
			continue
		}
		t, err := c.Task(name)
		if err != nil {
			return nil, err
		}
		state.nodes[name] = &node{task: t, copies: make(map[string]string)}
		state.order = append(state.order, name)
		queue = append(queue, t.Dependencies()...)
	}

	for _, name := range state.order {
		n := state.nodes[name]
		deps := n.task.Dependencies()
		for _, dep := range deps {
			d := state.nodes[dep]
			n.deps = append(n.deps, d)
			d.dependents = append(d.dependents, n)
		}
		if err := state.graph.AddTask(name, deps); err != nil {
			return nil, err
		}
	}

	for _, name := range req.Tasks() {
		n := state.nodes[name]
		outputs := n.task.Kind().OutputTypes()
		for output, dest := range req[name] {
			if _, ok := outputs[output]; !ok {
				return nil, zerr.With(zerr.With(domain.ErrUnknownOutput, "task", name), "output", output)
			}
			n.copies[output] = dest
		}
	}

	return state, nil
}

func (s *Scheduler) emitPlan(ctx context.Context, state *runState, req domain.Request) {
	planned := make([]string, 0, len(state.order))
	deps := make(map[string][]string, len(state.order))
	for name := range state.graph.Walk() {
		planned = append(planned, name)
		deps[name] = state.graph.Dependencies(name)
	}
	s.tracer.EmitPlan(ctx, planned, deps, req.Tasks())
}

func (state *runState) runWaves(ctx context.Context) error {
	wave := state.readyFrom(state.nodeList(state.order))
	for len(wave) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		jobs := make([]func(ctx context.Context) error, len(wave))
		for i, n := range wave {
			n.scheduled = true
			jobs[i] = func(ctx context.Context) error {
				return state.execute(ctx, n)
			}
		}
		if err := state.c.Parallel(ctx, jobs); err != nil {
			return err
		}

		var next []*node
		for _, n := range wave {
			next = append(next, n.dependents...)
		}
		wave = state.readyFrom(next)
	}
	return nil
}

func (state *runState) nodeList(names []string) []*node {
	out := make([]*node, len(names))
	for i, name := range names {
		out[i] = state.nodes[name]
	}
	return out
}

// readyFrom returns the unscheduled candidates whose dependencies have all executed.
func (state *runState) readyFrom(candidates []*node) []*node {
	var ready []*node
	for _, n := range candidates {
		if n.scheduled || slices.Contains(ready, n) {
			continue
		}
		if !slices.ContainsFunc(n.deps, func(d *node) bool { return !d.task.Executed() }) {
			ready = append(ready, n)
		}
	}
	return ready
}

func (state *runState) execute(ctx context.Context, n *node) error {
	name := n.task.Name()
	ref, err := n.task.ReferenceHash(state.c)
	if err != nil {
		state.fail(name, 0)
		return err
	}

	ctx, span := state.s.tracer.Start(ctx, name,
		ports.WithAttribute(domain.AttrTaskName, name),
		ports.WithAttribute(domain.AttrReferenceHash, ref),
	)
	defer span.End()

	waitStart := time.Now()
	lock, err := state.c.Locks().Lock(ctx, domain.TaskDirName(name, ref))
	state.s.metrics.LockWaited(time.Since(waitStart))
	if err != nil {
		span.RecordError(err)
		state.fail(name, 0)
		return err
	}
	state.hold(n, lock)
	defer state.done(n)

	start := time.Now()
	outcome, err := n.task.Execute(ctx, state.c, span)
	if err == nil {
		err = state.publish(n)
	}
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		state.fail(name, duration)
		return err
	}

	switch outcome {
	case task.OutcomeCached:
		span.SetAttribute(domain.AttrCached, true)
		state.s.metrics.TaskCached(name)
		state.record(Result{Task: name, Status: domain.TaskStatusCached, Duration: duration})
	case task.OutcomeExecuted:
		span.SetAttribute(domain.AttrCached, false)
		state.s.metrics.TaskExecuted(name, duration)
		state.record(Result{Task: name, Status: domain.TaskStatusExecuted, Duration: duration})
	case task.OutcomeAlreadyExecuted:
	}
	state.c.Logger().Debug("task finished", "task", name, "outcome", outcome.String())
	return nil
}

// publish copies the requested outputs of n to their destinations.
// Destinations that already match the output are left untouched.
func (state *runState) publish(n *node) error {
	outputs := make([]string, 0, len(n.copies))
	for output := range n.copies {
		outputs = append(outputs, output)
	}
	slices.Sort(outputs)

	for _, output := range outputs {
		src, err := n.task.OutputPath(state.c, output)
		if err != nil {
			return err
		}
		dest := n.copies[output]
		if state.published(src, dest) {
			continue
		}
		if err := copyFileAtomic(src, dest); err != nil {
			return zerr.With(zerr.With(err, "task", n.task.Name()), "output", output)
		}
	}
	return nil
}

// published reports whether dest already holds the contents of src.
func (state *runState) published(src, dest string) bool {
	if _, err := os.Stat(dest); err != nil {
		return false
	}
	want, err := state.c.HashFile(src)
	if err != nil {
		return false
	}
	got, err := state.c.HashFile(dest)
	return err == nil && got == want
}

// hold stores the lock of n. It stays held while n or any of its dependents in
// this run is still working.
func (state *runState) hold(n *node, lock ports.Lock) {
	state.mu.Lock()
	defer state.mu.Unlock()
	n.lock = lock
	n.refs = 1 + len(n.dependents)
}

// done drops the references n holds on its own lock and on its dependencies' locks.
func (state *runState) done(n *node) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.unref(n)
	for _, d := range n.deps {
		state.unref(d)
	}
}

func (state *runState) unref(n *node) {
	n.refs--
	if n.refs <= 0 && n.lock != nil && !n.released {
		n.released = true
		n.lock.Release()
	}
}

func (state *runState) releaseAll() {
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, name := range state.order {
		n := state.nodes[name]
		if n.lock != nil && !n.released {
			n.released = true
			n.lock.Release()
		}
	}
}

func (state *runState) fail(name string, d time.Duration) {
	state.s.metrics.TaskFailed(name)
	state.record(Result{Task: name, Status: domain.TaskStatusFailed, Duration: d})
}

func (state *runState) record(r Result) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.results = append(state.results, r)
}

func (state *runState) report() *Report {
	state.mu.Lock()
	defer state.mu.Unlock()
	results := slices.Clone(state.results)
	slices.SortFunc(results, func(a, b Result) int { return strings.Compare(a.Task, b.Task) })
	return &Report{Results: results}
}

// checkComplete reports tasks that never executed although the loop ended cleanly.
func (state *runState) checkComplete() error {
	for _, name := range state.order {
		if !state.nodes[name].task.Executed() {
			return zerr.With(domain.ErrGraphInconsistent, "task", name)
		}
	}
	return nil
}
