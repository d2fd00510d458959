package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/adapters/telemetry"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_TaskLifecycle(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	var startID, logID, endID string
	gomock.InOrder(
		renderer.EXPECT().OnPlanEmit([]string{"a", "b"}, map[string][]string{"b": {"a"}}, []string{"b"}),
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "a", gomock.Any()).
			Do(func(id, _, _ string, _ any) { startID = id }),
		renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("hello\n")).
			Do(func(id string, _ []byte) { logID = id }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), true, nil).
			Do(func(id string, _, _, _ any) { endID = id }),
	)

	ctx := context.Background()
	tracer.EmitPlan(ctx, []string{"a", "b"}, map[string][]string{"b": {"a"}}, []string{"b"})

	_, span := tracer.Start(ctx, "a", ports.WithAttribute(domain.AttrTaskName, "a"))
	n, err := span.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	span.SetAttribute(domain.AttrCached, true)
	span.End()

	assert.NotEmpty(t, startID)
	assert.Equal(t, startID, logID)
	assert.Equal(t, startID, endID)
}

func TestOTelTracer_RecordError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "a", gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), false, gomock.Not(gomock.Nil()))

	_, span := tracer.Start(context.Background(), "a",
		ports.WithAttribute(domain.AttrTaskName, "a"),
		ports.WithAttribute(domain.AttrReferenceHash, "abc"),
	)
	span.RecordError(errors.New("exit status 1"))
	span.End()
}

func TestOTelTracer_WithoutRenderer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewOTelTracer("test")
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	require.NotNil(t, tracer.Provider())

	ctx, span := tracer.Start(context.Background(), "a", ports.WithAttribute("count", 3))
	require.NotNil(t, ctx)
	n, err := span.Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	span.SetAttribute("other", struct{}{})
	span.End()

	tracer.EmitPlan(ctx, nil, nil, nil)
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()
	got, span := tracer.Start(ctx, "a")
	assert.Equal(t, ctx, got)

	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
	tracer.EmitPlan(ctx, []string{"a"}, nil, []string{"a"})
}
