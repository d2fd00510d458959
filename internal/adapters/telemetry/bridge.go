package telemetry

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports task spans to a Renderer.
// Spans without the task name attribute are ignored.
type Bridge struct {
	mu       sync.RWMutex
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge. renderer may be nil.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// SetRenderer replaces the renderer receiving span events.
func (b *Bridge) SetRenderer(renderer ports.Renderer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = renderer
}

// Renderer returns the current renderer, or nil.
func (b *Bridge) Renderer() ports.Renderer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.renderer
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	renderer := b.Renderer()
	if renderer == nil {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() || !isTaskSpan(s.Attributes()) {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}
	renderer.OnTaskStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	renderer := b.Renderer()
	if renderer == nil {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() || !isTaskSpan(s.Attributes()) {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "task failed"
		}
		err = errors.New(desc)
	}

	cached := false
	for _, kv := range s.Attributes() {
		if string(kv.Key) == domain.AttrCached && kv.Value.Type() == attribute.BOOL {
			cached = kv.Value.AsBool()
		}
	}
	renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), cached, err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func isTaskSpan(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if string(kv.Key) == domain.AttrTaskName {
			return true
		}
	}
	return false
}
