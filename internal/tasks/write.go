package tasks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// TypeWrite writes the value input "content" to the output "out".
const TypeWrite = "write"

type writeKind struct {
	Base
}

func newWrite(b Base, _ Env) (task.Kind, error) {
	if _, ok, err := b.value("content"); err != nil {
		return nil, err
	} else if !ok {
		return nil, zerr.With(zerr.With(domain.ErrMissingInput, "task", b.name), "input", "content")
	}
	if err := b.requireOutput("out"); err != nil {
		return nil, err
	}
	return &writeKind{Base: b}, nil
}

func (k *writeKind) Run(_ context.Context, rc task.RunContext) error {
	v, err := rc.Value("content")
	if err != nil {
		return err
	}
	path, err := rc.OutputPath("out")
	if err != nil {
		return err
	}
	content := render(v)
	if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write output"), "path", path)
	}
	rc.Logger().Debug("wrote output", "task", k.name, "bytes", len(content))
	return nil
}

// render turns a value into file content. Lists become one line per element.
func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		lines := make([]string, len(t))
		for i, e := range t {
			lines[i] = render(e)
		}
		return strings.Join(lines, "\n") + "\n"
	default:
		return fmt.Sprint(t)
	}
}
