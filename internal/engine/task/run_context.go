package task

import (
	"io"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/zerr"
)

type runContext struct {
	task     *Task
	c        Context
	dir      string
	contents string
	stdout   io.Writer
}

func (rc *runContext) OutputPath(output string) (string, error) {
	ext, ok := rc.task.kind.OutputTypes()[output]
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrUnknownOutput, "task", rc.task.Name()), "output", output)
	}
	return domain.OutputPath(rc.dir, rc.contents, output, ext), nil
}

func (rc *runContext) input(name string) (input.HashableInput, error) {
	for _, in := range rc.task.kind.Inputs() {
		if in.Name() == name {
			return in, nil
		}
	}
	return nil, zerr.With(zerr.With(domain.ErrMissingInput, "task", rc.task.Name()), "input", name)
}

func (rc *runContext) InputPath(name string) (string, error) {
	in, err := rc.input(name)
	if err != nil {
		return "", err
	}
	p, ok := in.(input.PathInput)
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrTypeMismatch, "input", name), "expected", "file")
	}
	return p.Path(rc.c)
}

func (rc *runContext) InputPaths(name string) ([]string, error) {
	in, err := rc.input(name)
	if err != nil {
		return nil, err
	}
	switch t := in.(type) {
	case input.FileList:
		return t.Files(rc.c)
	case input.PathInput:
		p, err := t.Path(rc.c)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	default:
		return nil, zerr.With(zerr.With(domain.ErrTypeMismatch, "input", name), "expected", "files")
	}
}

func (rc *runContext) Value(name string) (any, error) {
	in, err := rc.input(name)
	if err != nil {
		return nil, err
	}
	v, ok := in.(*input.Value)
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrTypeMismatch, "input", name), "expected", "value")
	}
	return v.Value(), nil
}

func (rc *runContext) Logger() ports.Logger { return rc.c.Logger() }

func (rc *runContext) Stdout() io.Writer { return rc.stdout }
