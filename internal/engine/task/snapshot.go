package task

import (
	"encoding/json"
	"reflect"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// snapshot records every input's value, keyed by input name.
func (t *Task) snapshot(c Context) (json.RawMessage, error) {
	values := make(map[string]any, len(t.kind.Inputs()))
	for _, in := range t.kind.Inputs() {
		v, err := in.RecordedValue(c)
		if err != nil {
			return nil, zerr.With(err, "input", in.Name())
		}
		values[in.Name()] = v
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	return data, nil
}

// sameSnapshot compares two recorded snapshots structurally, so formatting
// and key order of the stored JSON do not matter.
func sameSnapshot(stored, current json.RawMessage) (bool, error) {
	if len(stored) == 0 {
		return false, nil
	}
	var a, b any
	if err := json.Unmarshal(stored, &a); err != nil {
		return false, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}
	if err := json.Unmarshal(current, &b); err != nil {
		return false, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}
	return reflect.DeepEqual(a, b), nil
}
