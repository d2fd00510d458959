package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/tgr/internal/ui/output"
	"go.trai.ch/tgr/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one colored line per record.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w, output.ProfileTerminal),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
// A top-level "task" attribute becomes a [name] prefix so log lines line up
// with the task lines of the linear renderer.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var glyph string
	color := style.Slate
	switch {
	case r.Level >= slog.LevelError:
		glyph = style.Cross
		color = style.Red
	case r.Level >= slog.LevelWarn:
		glyph = style.Warning
		color = style.Yellow
	case r.Level < slog.LevelInfo:
		glyph = style.Dot
	}

	var task string
	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	collect := func(attr slog.Attr) bool {
		if h.group == "" && attr.Key == TaskKey && task == "" {
			task = attr.Value.String()
			return true
		}
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(collect)

	parts := make([]string, 0, 3+len(attrParts))
	if glyph != "" {
		parts = append(parts, glyph)
	}
	if task != "" {
		parts = append(parts, "["+task+"]")
	}
	parts = append(parts, r.Message)
	parts = append(parts, attrParts...)

	_, err := h.out.WriteString(output.Paint(h.out, strings.Join(parts, " "), color) + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// TaskKey is the attribute key naming the task a record belongs to.
const TaskKey = "task"

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindDuration {
		return key + "=" + value.Duration().Round(time.Millisecond).String()
	}
	return key + "=" + value.String()
}
