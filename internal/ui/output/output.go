// Package output creates the terminal outputs that logs and progress are written to.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Profile selects how colors are encoded on an output.
type Profile int

const (
	// ProfileTerminal detects the color support of the terminal.
	ProfileTerminal Profile = iota
	// ProfileANSI always uses the 16 ANSI colors. CI logs render those reliably.
	ProfileANSI
)

// Resolve returns the termenv profile for p. NO_COLOR always yields Ascii.
func (p Profile) Resolve() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if p == ProfileANSI {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates an output on w using profile p. A nil w means os.Stderr.
func New(w io.Writer, p Profile) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(p.Resolve()), termenv.WithTTY(true))
}

// Paint renders s in color, converted to the profile of out.
func Paint(out *termenv.Output, s string, color lipgloss.Color) string {
	return out.String(s).Foreground(out.Color(string(color))).String()
}
