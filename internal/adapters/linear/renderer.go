// Package linear renders run progress as plain lines, suitable for terminals and CI logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/tgr/internal/adapters/detector"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/ui/output"
	"go.trai.ch/tgr/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer.
//
// In linear mode task output goes to stdout line by line, prefixed with the
// task name. In compact mode output is held back and only printed when the
// task fails. Status lines always go to stderr.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	compact bool

	mu    sync.Mutex
	tasks map[string]*taskState // by span ID
}

type taskState struct {
	name      string
	startTime time.Time
	partial   bytes.Buffer
	held      bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer, mode detector.OutputMode) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.New(stderr, output.ProfileANSI),
		compact: mode == detector.ModeCompact,
		tasks:   make(map[string]*taskState),
	}
}

// Start does nothing; rendering is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop emits the unterminated output of unfinished tasks.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	return nil
}

// OnPlanEmit prints the number of planned tasks.
func (r *Renderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "%s\n",
		r.styled(fmt.Sprintf("Planning %d task(s) for %v", len(tasks), targets), style.Slate))
}

// OnTaskStart registers the task. Linear mode also prints a start line.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}
	if !r.compact {
		_, _ = fmt.Fprintf(r.stderr, "%s %s\n",
			r.styled(style.StatusIcon(domain.TaskStatusRunning), style.StatusColor(domain.TaskStatusRunning)),
			r.styled("["+name+"] started", style.Slate))
	}
}

// OnTaskLog splits output into lines and prints or holds complete ones.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	task.partial.Write(data)
	for {
		i := bytes.IndexByte(task.partial.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := task.partial.Next(i + 1)
		r.lineLocked(task, line)
	}
}

// OnTaskComplete prints the status line of a finished task.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, cached bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	status := domain.TaskStatusExecuted
	switch {
	case err != nil:
		status = domain.TaskStatusFailed
	case cached:
		status = domain.TaskStatusCached
	}

	r.flushLocked(task)
	if err != nil && r.compact {
		_, _ = r.stdout.Write(task.held.Bytes())
	}

	detail := formatDuration(endTime.Sub(task.startTime))
	switch status {
	case domain.TaskStatusCached:
		detail = "cached"
	case domain.TaskStatusFailed:
		detail = fmt.Sprintf("failed after %s: %v", detail, err)
	}
	_, _ = fmt.Fprintf(r.stderr, "%s [%s] %s\n",
		r.styled(style.StatusIcon(status), style.StatusColor(status)), task.name, detail)
}

// lineLocked prints or holds one line of task output. r.mu must be held.
func (r *Renderer) lineLocked(task *taskState, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	w := r.stdout
	if r.compact {
		w = &task.held
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", task.name, line)
}

// flushLocked emits the unterminated tail of the task output. r.mu must be held.
func (r *Renderer) flushLocked(task *taskState) {
	if task.partial.Len() == 0 {
		return
	}
	tail := bytes.Clone(task.partial.Bytes())
	task.partial.Reset()
	r.lineLocked(task, tail)
}

func (r *Renderer) styled(s string, color lipgloss.Color) string {
	return output.Paint(r.output, s, color)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
