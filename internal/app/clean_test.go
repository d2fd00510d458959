package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/app"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestApp_Clean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        app.CleanOptions
		wantResults bool
		wantLocks   bool
	}{
		{name: "results only", opts: app.CleanOptions{Results: true}, wantLocks: true},
		{name: "locks only", opts: app.CleanOptions{Locks: true}, wantResults: true},
		{name: "everything", opts: app.CleanOptions{Results: true, Locks: true}},
		{name: "nothing", wantResults: true, wantLocks: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			dir := t.TempDir()
			project := greetingProject(dir)
			results := domain.ResultsDir(project.CacheRoot)
			locks := domain.LocksDir(project.CacheRoot)
			require.NoError(t, os.MkdirAll(filepath.Join(results, "greeting.abc"), 0o750))
			require.NoError(t, os.MkdirAll(locks, 0o750))

			loader := mocks.NewMockConfigLoader(ctrl)
			loader.EXPECT().Load(dir, "").Return(project, nil)

			opts := tt.opts
			opts.Dir = dir
			require.NoError(t, newApp(t, loader, nil).Clean(t.Context(), opts))

			assert.Equal(t, tt.wantResults, exists(results))
			assert.Equal(t, tt.wantLocks, exists(locks))
		})
	}
}

func TestApp_PruneLocks(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	dir := t.TempDir()
	project := greetingProject(dir)
	locks := domain.LocksDir(project.CacheRoot)
	require.NoError(t, os.MkdirAll(locks, 0o750))

	stale := filepath.Join(locks, "old.abc."+domain.LockExt)
	fresh := filepath.Join(locks, "new.abc."+domain.LockExt)
	require.NoError(t, os.WriteFile(stale, nil, 0o600))
	require.NoError(t, os.WriteFile(fresh, nil, 0o600))
	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(dir, "custom.yaml").Return(project, nil)

	err := newApp(t, loader, nil).PruneLocks(t.Context(), app.PruneOptions{
		ProjectOptions: app.ProjectOptions{Dir: dir, ConfigPath: "custom.yaml"},
		MaxAgeDays:     7,
	})
	require.NoError(t, err)

	assert.False(t, exists(stale))
	assert.True(t, exists(fresh))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
