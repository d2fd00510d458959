package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddTask(t *testing.T) {
	t.Parallel()

	g := domain.NewGraph()
	require.NoError(t, g.AddTask("task1", nil))

	err := g.AddTask("task1", nil)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "task1", zErr.Metadata()["task"])
}

func TestGraph_Validate_Cycle(t *testing.T) {
	t.Parallel()

	g := domain.NewGraph()
	require.NoError(t, g.AddTask("a", []string{"b"}))
	require.NoError(t, g.AddTask("b", []string{"a"}))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCycleDetected.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "a -> b -> a", zErr.Metadata()["cycle"])
}

func TestGraph_Validate_SelfCycle(t *testing.T) {
	t.Parallel()

	g := domain.NewGraph()
	require.NoError(t, g.AddTask("a", []string{"a"}))

	err := g.Validate()
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "a -> a", zErr.Metadata()["cycle"])
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	t.Parallel()

	g := domain.NewGraph()
	require.NoError(t, g.AddTask("a", []string{"ghost"}))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
}

func TestGraph_Walk(t *testing.T) {
	t.Parallel()

	// a -> b -> c
	g := domain.NewGraph()
	require.NoError(t, g.AddTask("a", []string{"b"}))
	require.NoError(t, g.AddTask("b", []string{"c"}))
	require.NoError(t, g.AddTask("c", nil))
	require.NoError(t, g.Validate())

	assert.Equal(t, []string{"c", "b", "a"}, slices.Collect(g.Walk()))
	assert.Equal(t, 3, g.TaskCount())
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
}
