package input

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// value kind tags. Every numeric width has its own tag so int32(1) and int64(1) differ.
const (
	kindString byte = iota + 1
	kindBool
	kindInt8
	kindInt16
	kindInt32
	kindInt64
	kindUint8
	kindUint16
	kindUint32
	kindUint64
	kindFloat32
	kindFloat64
	kindList
	kindMap
)

// Value is a literal input: a scalar, a list or a string-keyed map.
type Value struct {
	name  string
	value any
}

var _ HashableInput = (*Value)(nil)

// NewValue creates a value input. Typed slices and maps are normalized to []any and
// map[string]any. Unsupported kinds fail with domain.ErrInvalidValue.
func NewValue(name string, v any) (*Value, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, zerr.With(err, "input", name)
	}
	return &Value{name: name, value: normalized}, nil
}

// Name returns the input name.
func (v *Value) Name() string { return v.name }

// Value returns the normalized value.
func (v *Value) Value() any { return v.value }

// Dependencies returns nil; values never depend on tasks.
func (v *Value) Dependencies() []string { return nil }

// HashReference writes the value's binary encoding.
func (v *Value) HashReference(_ Env, h io.Writer) error {
	writeTag(h, tagValue)
	return encodeValue(h, v.value)
}

// HashContents is the same as HashReference.
func (v *Value) HashContents(env Env, h io.Writer) error {
	return v.HashReference(env, h)
}

// RecordedValue returns the normalized value.
func (v *Value) RecordedValue(_ Env) (any, error) {
	return v.value, nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	}

	if v == nil {
		return nil, zerr.With(domain.ErrInvalidValue, "type", "nil")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range rv.Len() {
			list[i] = rv.Index(i).Interface()
		}
		return normalize(list)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, zerr.With(domain.ErrInvalidValue, "type", rv.Type().String())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return normalize(m)
	default:
		return nil, zerr.With(domain.ErrInvalidValue, "type", fmt.Sprintf("%T", v))
	}
}

//nolint:cyclop,gosec // one case per supported kind; integer conversions keep the bit pattern
func encodeValue(h io.Writer, v any) error {
	switch t := v.(type) {
	case string:
		writeTag(h, kindString)
		WriteString(h, t)
	case bool:
		writeTag(h, kindBool)
		if t {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	case int8:
		writeTag(h, kindInt8)
		_, _ = h.Write([]byte{byte(t)})
	case int16:
		writeTag(h, kindInt16)
		_, _ = h.Write(binary.BigEndian.AppendUint16(nil, uint16(t)))
	case int32:
		writeTag(h, kindInt32)
		_, _ = h.Write(binary.BigEndian.AppendUint32(nil, uint32(t)))
	case int:
		writeTag(h, kindInt64)
		writeUint64(h, uint64(t))
	case int64:
		writeTag(h, kindInt64)
		writeUint64(h, uint64(t))
	case uint8:
		writeTag(h, kindUint8)
		_, _ = h.Write([]byte{t})
	case uint16:
		writeTag(h, kindUint16)
		_, _ = h.Write(binary.BigEndian.AppendUint16(nil, t))
	case uint32:
		writeTag(h, kindUint32)
		_, _ = h.Write(binary.BigEndian.AppendUint32(nil, t))
	case uint:
		writeTag(h, kindUint64)
		writeUint64(h, uint64(t))
	case uint64:
		writeTag(h, kindUint64)
		writeUint64(h, t)
	case float32:
		writeTag(h, kindFloat32)
		_, _ = h.Write(binary.BigEndian.AppendUint32(nil, math.Float32bits(t)))
	case float64:
		writeTag(h, kindFloat64)
		writeUint64(h, math.Float64bits(t))
	case []any:
		writeTag(h, kindList)
		WriteCount(h, len(t))
		for _, e := range t {
			if err := encodeValue(h, e); err != nil {
				return err
			}
		}
	case map[string]any:
		writeTag(h, kindMap)
		WriteCount(h, len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			WriteString(h, k)
			if err := encodeValue(h, t[k]); err != nil {
				return err
			}
		}
	default:
		return zerr.With(domain.ErrInvalidValue, "type", fmt.Sprintf("%T", v))
	}
	return nil
}
