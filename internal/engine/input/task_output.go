package input

import (
	"io"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// TaskOutput reads an output produced by another task.
type TaskOutput struct {
	name   string
	task   string
	output string
}

var _ PathInput = (*TaskOutput)(nil)

// NewTaskOutput creates an input reading output of task.
func NewTaskOutput(name, task, output string) *TaskOutput {
	return &TaskOutput{name: name, task: task, output: output}
}

// Name returns the input name.
func (t *TaskOutput) Name() string { return t.name }

// Task returns the producing task's name.
func (t *TaskOutput) Task() string { return t.task }

// Output returns the referenced output name.
func (t *TaskOutput) Output() string { return t.output }

// Dependencies returns the producing task.
func (t *TaskOutput) Dependencies() []string { return []string{t.task} }

// Path returns the cache path of the produced file.
func (t *TaskOutput) Path(env Env) (string, error) {
	executed, err := env.Executed(t.task)
	if err != nil {
		return "", err
	}
	if !executed {
		return "", zerr.With(zerr.With(domain.ErrDependencyNotExecuted, "task", t.task), "input", t.name)
	}
	return env.OutputPath(t.task, t.output)
}

// HashReference writes the task and output names only. The upstream task's own
// hashes are not included; they reach the contents hash through the produced bytes.
func (t *TaskOutput) HashReference(_ Env, h io.Writer) error {
	writeTag(h, tagTaskOutput)
	WriteString(h, t.task)
	WriteString(h, t.output)
	return nil
}

// HashContents writes the reference and the produced file's bytes.
func (t *TaskOutput) HashContents(env Env, h io.Writer) error {
	path, err := t.Path(env)
	if err != nil {
		return err
	}
	if err := t.HashReference(env, h); err != nil {
		return err
	}
	if err := streamFile(h, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputMissing.Error()), "output", t.task+"."+t.output)
	}
	return nil
}

// RecordedValue returns the referenced names and the produced file's hash.
func (t *TaskOutput) RecordedValue(env Env) (any, error) {
	path, err := t.Path(env)
	if err != nil {
		return nil, err
	}
	hash, err := env.HashFile(path)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"task":   t.task,
		"output": t.output,
		"hash":   hash,
	}, nil
}
