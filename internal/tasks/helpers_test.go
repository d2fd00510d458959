package tasks_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/adapters/cas"
	"go.trai.ch/tgr/internal/adapters/fs"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/invocation"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/tgr/internal/tasks"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

// runProject builds the project with registry and executes every task in declaration order.
func runProject(t *testing.T, registry *tasks.Registry, project *domain.Project, params input.Parameters) *invocation.Context {
	t.Helper()

	built, err := registry.Build(project, params)
	require.NoError(t, err)
	c := newContext(t, project, built)

	for _, tk := range c.Tasks() {
		_, err := tk.Execute(context.Background(), c, nil)
		require.NoError(t, err, tk.Name())
	}
	return c
}

// buildContext builds the project without executing anything.
func buildContext(t *testing.T, registry *tasks.Registry, project *domain.Project) (*invocation.Context, []*task.Task) {
	t.Helper()

	built, err := registry.Build(project, nil)
	require.NoError(t, err)
	return newContext(t, project, built), built
}

func newContext(t *testing.T, project *domain.Project, built []*task.Task) *invocation.Context {
	t.Helper()

	resolver, err := fs.NewArtifactResolver(project.Root, project.Artifacts)
	require.NoError(t, err)

	c, err := invocation.New(invocation.Options{CacheRoot: project.CacheRoot, UseCached: true}, built, invocation.Services{
		States:    cas.NewStore(),
		Artifacts: resolver,
		Hasher:    fs.NewHasher(),
		Logger:    quietLogger(t),
	})
	require.NoError(t, err)
	return c
}

func newProject(t *testing.T, specs ...domain.TaskSpec) *domain.Project {
	t.Helper()
	root := t.TempDir()
	return &domain.Project{
		Root:      root,
		CacheRoot: filepath.Join(root, domain.TgrDirName),
		Tasks:     specs,
	}
}
