package domain

import (
	"encoding/json"
	"time"
)

// StateRecord is the persisted result of a successful task run.
// It lives at <taskDir>/<contentsHash>.json next to the task's output files.
type StateRecord struct {
	// Inputs is the recorded input snapshot, keyed by input name.
	Inputs json.RawMessage `json:"inputs"`
	// Hashes maps output name to the hex content hash of the produced file.
	Hashes map[string]string `json:"hashes"`
	// LastAccessed is the last time the entry was used, in epoch milliseconds.
	LastAccessed int64 `json:"lastAccessed"`
	// LastExecuted is the time the task last ran, in epoch milliseconds.
	LastExecuted int64 `json:"lastExecuted"`
}

// LastExecutedTime returns LastExecuted as a time.Time.
func (r *StateRecord) LastExecutedTime() time.Time {
	return time.UnixMilli(r.LastExecuted)
}

// LastAccessedTime returns LastAccessed as a time.Time.
func (r *StateRecord) LastAccessedTime() time.Time {
	return time.UnixMilli(r.LastAccessed)
}
