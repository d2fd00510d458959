package telemetry

import (
	"context"

	"go.trai.ch/tgr/internal/core/ports"
)

// NoOpTracer is a no-op implementation of ports.Tracer.
type NoOpTracer struct{}

var _ ports.Tracer = (*NoOpTracer)(nil)

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx and a span that discards everything.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, NoOpSpan{}
}

// EmitPlan does nothing.
func (t *NoOpTracer) EmitPlan(context.Context, []string, map[string][]string, []string) {}

// NoOpSpan is a no-op implementation of ports.Span.
type NoOpSpan struct{}

func (NoOpSpan) End()                        {}
func (NoOpSpan) RecordError(error)           {}
func (NoOpSpan) SetAttribute(string, any)    {}
func (NoOpSpan) Write(p []byte) (int, error) { return len(p), nil }
