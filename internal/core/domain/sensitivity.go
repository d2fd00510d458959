package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// PathSensitivity controls how much of a file's path takes part in a task's reference hash.
type PathSensitivity uint8

const (
	// SensitivityAbsolute hashes the absolute path.
	SensitivityAbsolute PathSensitivity = iota
	// SensitivityNameOnly hashes the file name only.
	SensitivityNameOnly
	// SensitivityNone ignores the path entirely.
	SensitivityNone
)

// String returns the config spelling of the sensitivity.
func (s PathSensitivity) String() string {
	switch s {
	case SensitivityAbsolute:
		return "absolute"
	case SensitivityNameOnly:
		return "name"
	case SensitivityNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParsePathSensitivity parses the config spelling of a sensitivity.
// An empty string selects SensitivityAbsolute.
func ParsePathSensitivity(s string) (PathSensitivity, error) {
	switch strings.ToLower(s) {
	case "", "absolute":
		return SensitivityAbsolute, nil
	case "name", "name_only", "name-only":
		return SensitivityNameOnly, nil
	case "none":
		return SensitivityNone, nil
	default:
		return 0, zerr.With(ErrInvalidInput, "sensitivity", s)
	}
}
