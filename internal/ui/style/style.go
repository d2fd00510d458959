// Package style provides the colors and icons shared by the log handler and the renderer.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/tgr/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// StatusIcon returns the icon shown for a task status.
func StatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.TaskStatusExecuted:
		return Check
	case domain.TaskStatusCached:
		return Tilde
	case domain.TaskStatusFailed:
		return Cross
	case domain.TaskStatusRunning:
		return Dot
	default:
		return Circle
	}
}

// StatusColor returns the color a task status is rendered in.
func StatusColor(status domain.TaskStatus) lipgloss.Color {
	switch status {
	case domain.TaskStatusExecuted:
		return Green
	case domain.TaskStatusCached:
		return Iris
	case domain.TaskStatusFailed:
		return Red
	case domain.TaskStatusRunning:
		return Yellow
	default:
		return Slate
	}
}
