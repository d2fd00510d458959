// Package tasks provides the built-in task kinds and builds tasks from the project configuration.
package tasks

import (
	"maps"
	"net/http"
	"slices"
	"sync"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// Base carries what every kind shares: its name, type, inputs and outputs.
type Base struct {
	name    string
	typ     string
	version int
	inputs  []input.HashableInput
	outputs map[string]string
}

// NewBase creates a Base. A version below 1 selects task.DefaultCacheVersion.
func NewBase(name, typ string, version int, inputs []input.HashableInput, outputs map[string]string) Base {
	if version < 1 {
		version = task.DefaultCacheVersion
	}
	return Base{name: name, typ: typ, version: version, inputs: inputs, outputs: maps.Clone(outputs)}
}

// Name returns the task name.
func (b Base) Name() string { return b.name }

// Type returns the kind name.
func (b Base) Type() string { return b.typ }

// Inputs returns the declared inputs in order.
func (b Base) Inputs() []input.HashableInput { return b.inputs }

// OutputTypes returns the output extensions by output name.
func (b Base) OutputTypes() map[string]string { return b.outputs }

// CacheVersion returns the configured cache version.
func (b Base) CacheVersion() int { return b.version }

// input returns the declared input called name, or nil.
func (b Base) input(name string) input.HashableInput {
	for _, in := range b.inputs {
		if in.Name() == name {
			return in
		}
	}
	return nil
}

// value returns the value input called name.
func (b Base) value(name string) (any, bool, error) {
	in := b.input(name)
	if in == nil {
		return nil, false, nil
	}
	v, ok := in.(*input.Value)
	if !ok {
		return nil, true, zerr.With(zerr.With(zerr.With(domain.ErrTypeMismatch, "task", b.name), "input", name), "expected", "value")
	}
	return v.Value(), true, nil
}

// requireOutput fails unless the task declares output.
func (b Base) requireOutput(output string) error {
	if _, ok := b.outputs[output]; !ok {
		return zerr.With(zerr.With(domain.ErrUnknownOutput, "task", b.name), "output", output)
	}
	return nil
}

// Env is what kinds can use from the process running them.
type Env struct {
	// Root is the project root. Commands run there.
	Root string
	// Executor runs command tasks.
	Executor ports.Executor
	// Client fetches download tasks.
	Client *http.Client
}

// Factory builds a kind from its shared parts.
type Factory func(b Base, env Env) (task.Kind, error)

// Registry maps type names to kind factories.
type Registry struct {
	mu        sync.RWMutex
	env       Env
	factories map[string]Factory
}

// NewRegistry creates a registry holding the built-in kinds.
func NewRegistry(executor ports.Executor, client *http.Client) *Registry {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Registry{
		env:       Env{Executor: executor, Client: client},
		factories: make(map[string]Factory),
	}
	r.Register(TypeWrite, newWrite)
	r.Register(TypeConcat, newConcat)
	r.Register(TypeDownload, newDownload)
	r.Register(TypeCommand, newCommand)
	return r
}

// Register adds or replaces the factory for typ.
func (r *Registry) Register(typ string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typ] = f
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Build creates the tasks of project. params overlay the project parameters.
func (r *Registry) Build(project *domain.Project, params input.Parameters) ([]*task.Task, error) {
	merged := input.Parameters(project.Parameters).Merge(params)
	env := r.env
	env.Root = project.Root

	out := make([]*task.Task, 0, len(project.Tasks))
	for _, spec := range project.Tasks {
		k, err := r.buildKind(spec, merged, env)
		if err != nil {
			return nil, zerr.With(err, "task", spec.Name)
		}
		out = append(out, task.New(k))
	}
	return out, nil
}

func (r *Registry) buildKind(spec domain.TaskSpec, params input.Parameters, env Env) (task.Kind, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, zerr.With(domain.ErrUnknownTaskType, "type", spec.Type)
	}

	inputs := make([]input.HashableInput, 0, len(spec.Inputs))
	for _, is := range spec.Inputs {
		in, err := BuildInput(is, params)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return factory(NewBase(spec.Name, spec.Type, spec.CacheVersion, inputs, spec.Outputs), env)
}
