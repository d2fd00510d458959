package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/ui/style"
)

func TestStatusIcon(t *testing.T) {
	t.Parallel()

	assert.Equal(t, style.Check, style.StatusIcon(domain.TaskStatusExecuted))
	assert.Equal(t, style.Tilde, style.StatusIcon(domain.TaskStatusCached))
	assert.Equal(t, style.Cross, style.StatusIcon(domain.TaskStatusFailed))
	assert.Equal(t, style.Dot, style.StatusIcon(domain.TaskStatusRunning))
	assert.Equal(t, style.Circle, style.StatusIcon(domain.TaskStatusPending))
}

func TestStatusColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, style.Green, style.StatusColor(domain.TaskStatusExecuted))
	assert.Equal(t, style.Red, style.StatusColor(domain.TaskStatusFailed))
	assert.Equal(t, style.Slate, style.StatusColor(domain.TaskStatusPending))
}
