// Package detector chooses how run progress is rendered.
package detector

import (
	"os"

	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode selects the renderer layout.
type OutputMode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeCompact prints one line per finished task and shows task output only on failure.
	ModeCompact
	// ModeLinear prints every line of task output prefixed with the task name.
	ModeLinear
)

// String returns the flag value of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeCompact:
		return "compact"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ErrUnknownMode is returned by ParseMode for an unsupported flag value.
var ErrUnknownMode = zerr.New("unknown output mode, expected auto, compact or linear")

// ParseMode converts a --output flag value.
func ParseMode(s string) (OutputMode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "compact":
		return ModeCompact, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(ErrUnknownMode, "mode", s)
	}
}

// Environment is what mode detection looks at.
type Environment struct {
	IsTTY bool
	CI    bool
}

// DetectEnvironment inspects stderr and the CI variable.
func DetectEnvironment() Environment {
	ci := os.Getenv("CI")
	return Environment{
		IsTTY: term.IsTerminal(int(os.Stderr.Fd())), //nolint:gosec // Fd fits in int.
		CI:    ci == "true" || ci == "1",
	}
}

// Resolve returns requested unless it is ModeAuto. Interactive terminals get
// the compact layout, CI and redirected output get full logs.
func Resolve(requested OutputMode, env Environment) OutputMode {
	if requested != ModeAuto {
		return requested
	}
	if env.IsTTY && !env.CI {
		return ModeCompact
	}
	return ModeLinear
}
