package input

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parameter kinds.
const (
	KindString = "string"
	KindInt    = "int"
	KindBool   = "bool"
	KindFloat  = "float"
	KindList   = "list"
)

// Raw is an untyped parameter value taken from the command line or a .env file.
// It is parsed into the declared kind on resolution.
type Raw string

// Parameters holds named parameter values.
type Parameters map[string]any

// Merge returns a copy of p overlaid with every layer in order; later layers win.
func (p Parameters) Merge(layers ...Parameters) Parameters {
	out := make(Parameters, len(p))
	maps.Copy(out, p)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// Resolve returns the named parameter converted to kind. An empty kind accepts any value.
// A missing parameter falls back to def when hasDefault is set.
func (p Parameters) Resolve(name, kind string, def any, hasDefault bool) (any, error) {
	v, ok := p[name]
	if !ok {
		if !hasDefault {
			return nil, zerr.With(domain.ErrMissingParameter, "parameter", name)
		}
		v = def
	}
	out, err := convert(v, kind)
	if err != nil {
		return nil, zerr.With(err, "parameter", name)
	}
	return out, nil
}

// ParseAssignments parses key=value pairs into raw parameters.
func ParseAssignments(args []string) (Parameters, error) {
	out := make(Parameters, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, zerr.With(domain.ErrInvalidValue, "assignment", arg)
		}
		out[key] = Raw(value)
	}
	return out, nil
}

// FromStrings wraps string values, such as those read from a .env file, as raw parameters.
func FromStrings(values map[string]string) Parameters {
	out := make(Parameters, len(values))
	for k, v := range values {
		out[k] = Raw(v)
	}
	return out
}

//nolint:cyclop // one branch per kind
func convert(v any, kind string) (any, error) {
	if raw, ok := v.(Raw); ok {
		return parseRaw(string(raw), kind)
	}
	mismatch := func() error {
		return zerr.With(zerr.With(domain.ErrTypeMismatch, "expected", kind), "actual", fmt.Sprintf("%T", v))
	}
	switch kind {
	case "":
		return v, nil
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindFloat:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case KindList:
		switch l := v.(type) {
		case []any:
			return l, nil
		case []string:
			out := make([]any, len(l))
			for i, s := range l {
				out[i] = s
			}
			return out, nil
		}
	default:
		return nil, zerr.With(domain.ErrInvalidValue, "kind", kind)
	}
	return nil, mismatch()
}

func parseRaw(s, kind string) (any, error) {
	mismatch := func(err error) error {
		e := zerr.With(zerr.With(domain.ErrTypeMismatch, "expected", kind), "value", s)
		if err != nil {
			e = zerr.With(e, "reason", err.Error())
		}
		return e
	}
	switch kind {
	case "", KindString:
		return s, nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, mismatch(err)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, mismatch(err)
		}
		return b, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, mismatch(err)
		}
		return f, nil
	case KindList:
		if strings.TrimSpace(s) == "" {
			return []any{}, nil
		}
		parts := strings.Split(s, ",")
		out := make([]any, len(parts))
		for i, part := range parts {
			out[i] = strings.TrimSpace(part)
		}
		return out, nil
	default:
		return nil, zerr.With(domain.ErrInvalidValue, "kind", kind)
	}
}
