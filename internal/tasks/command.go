package tasks

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/zerr"
)

// TypeCommand runs the list value input "command" in the project root.
//
// Every other input is exported as TGR_INPUT_<NAME>: file inputs as paths
// joined with the OS list separator, values as text. Every output path is
// exported as TGR_OUTPUT_<NAME>. The command must write each output.
const TypeCommand = "command"

type commandKind struct {
	Base
	root     string
	executor ports.Executor
	args     []string
}

func newCommand(b Base, env Env) (task.Kind, error) {
	v, ok, err := b.value("command")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrMissingInput, "task", b.name), "input", "command")
	}

	var args []string
	switch t := v.(type) {
	case string:
		args = strings.Fields(t)
	case []any:
		for _, a := range t {
			s, isString := a.(string)
			if !isString {
				return nil, zerr.With(zerr.With(zerr.With(domain.ErrTypeMismatch, "task", b.name), "input", "command"), "expected", "list of strings")
			}
			args = append(args, s)
		}
	default:
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrTypeMismatch, "task", b.name), "input", "command"), "expected", "list of strings")
	}
	if len(args) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrInvalidValue, "task", b.name), "input", "command")
	}

	return &commandKind{Base: b, root: env.Root, executor: env.Executor, args: args}, nil
}

func (k *commandKind) Run(ctx context.Context, rc task.RunContext) error {
	var env []string
	for _, in := range k.inputs {
		if in.Name() == "command" {
			continue
		}
		value, err := k.inputValue(rc, in)
		if err != nil {
			return err
		}
		env = append(env, EnvName("TGR_INPUT_", in.Name())+"="+value)
	}

	outputs := make([]string, 0, len(k.outputs))
	for output := range k.outputs {
		outputs = append(outputs, output)
	}
	slices.Sort(outputs)
	for _, output := range outputs {
		path, err := rc.OutputPath(output)
		if err != nil {
			return err
		}
		env = append(env, EnvName("TGR_OUTPUT_", output)+"="+path)
	}

	return k.executor.Execute(ctx, ports.Command{
		Args:       k.args,
		Env:        env,
		WorkingDir: k.root,
	}, rc.Stdout())
}

func (k *commandKind) inputValue(rc task.RunContext, in input.HashableInput) (string, error) {
	if v, ok := in.(*input.Value); ok {
		return envValue(v.Value()), nil
	}
	paths, err := rc.InputPaths(in.Name())
	if err != nil {
		return "", err
	}
	return strings.Join(paths, string(os.PathListSeparator)), nil
}

// envValue formats a value for the environment. List elements are joined with commas.
func envValue(v any) string {
	if l, ok := v.([]any); ok {
		parts := make([]string, len(l))
		for i, e := range l {
			parts[i] = envValue(e)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// EnvName builds an environment variable name from prefix and an input or
// output name: letters are upper-cased, anything else but digits becomes '_'.
func EnvName(prefix, name string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
