package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tgr/internal/core/domain"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/work", domain.TgrDirName)
	dir := domain.TaskDir(root, "bundle", "ref")

	assert.Equal(t, filepath.Join("/work", ".tgr", "results", "bundle.ref"), dir)
	assert.Equal(t, "bundle.ref", domain.TaskDirName("bundle", "ref"))
	assert.Equal(t, filepath.Join(dir, "c0ffee.json"), domain.StatePath(dir, "c0ffee"))
	assert.Equal(t, filepath.Join(dir, "c0ffee.out.txt"), domain.OutputPath(dir, "c0ffee", "out", "txt"))
	assert.Equal(t, filepath.Join("/work", ".tgr", "locks", "00ff.lock"), domain.LockPath(root, "00ff"))
}
