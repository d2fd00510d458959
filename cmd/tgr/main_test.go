package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tgr/internal/adapters/cas"
	"go.trai.ch/tgr/internal/adapters/fs"
	"go.trai.ch/tgr/internal/adapters/metrics"
	"go.trai.ch/tgr/internal/adapters/telemetry"
	"go.trai.ch/tgr/internal/app"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.trai.ch/tgr/internal/engine/scheduler"
	"go.trai.ch/tgr/internal/tasks"
	"go.uber.org/mock/gomock"
)

func newProvider(t *testing.T, loader *mocks.MockConfigLoader, log *mocks.MockLogger) ComponentProvider {
	t.Helper()
	m := metrics.NewPrometheus()
	tracer := telemetry.NewOTelTracer("test")
	application := app.New(
		loader,
		scheduler.NewScheduler(tracer, m),
		tasks.NewRegistry(nil, http.DefaultClient),
		log,
		cas.NewStore(),
		fs.NewHasher(),
		m,
		tracer,
	)
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newProvider(t, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ConfigError verifies that run returns 1 and logs when the configuration cannot be loaded.
func TestRun_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(dir, "").Return(nil, domain.ErrConfigNotFound)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"run", "-C", dir, "greeting"}, new(bytes.Buffer), newProvider(t, loader, log))
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailure verifies that failed builds exit with 2.
func TestRun_BuildFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(dir, "").Return(&domain.Project{
		Root:      dir,
		CacheRoot: filepath.Join(dir, domain.TgrDirName),
	}, nil)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"run", "-C", dir, "missing"}, new(bytes.Buffer), newProvider(t, loader, log))
	assert.Equal(t, 2, exitCode)
}
