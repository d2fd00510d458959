package tasks

import (
	"context"
	"io"
	"os"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// TypeConcat concatenates every file-backed input, in declared order, into the output "out".
const TypeConcat = "concat"

type concatKind struct {
	Base
}

func newConcat(b Base, _ Env) (task.Kind, error) {
	if err := b.requireOutput("out"); err != nil {
		return nil, err
	}
	return &concatKind{Base: b}, nil
}

func (k *concatKind) Run(_ context.Context, rc task.RunContext) (err error) {
	path, err := rc.OutputPath("out")
	if err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output"), "path", path)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(cerr, "failed to close output"), "path", path)
		}
	}()

	for _, in := range k.inputs {
		switch in.(type) {
		case input.PathInput, input.FileList:
		default:
			continue
		}
		files, err := rc.InputPaths(in.Name())
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := appendFile(out, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(w, f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy input"), "path", path)
	}
	return nil
}
