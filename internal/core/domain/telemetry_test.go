package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tgr/internal/core/domain"
)

func TestTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     domain.TaskStatus
		isTerminal bool
	}{
		{"Pending", domain.TaskStatusPending, false},
		{"Running", domain.TaskStatusRunning, false},
		{"Executed", domain.TaskStatusExecuted, true},
		{"Cached", domain.TaskStatusCached, true},
		{"Failed", domain.TaskStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNormalizeTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected domain.TaskStatus
	}{
		{"pending", domain.TaskStatusPending},
		{"RUNNING", domain.TaskStatusRunning},
		{"executed", domain.TaskStatusExecuted},
		{"cached", domain.TaskStatusCached},
		{"failed", domain.TaskStatusFailed},
		{"unknown", domain.TaskStatusPending},
		{"", domain.TaskStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, domain.NormalizeTaskStatus(tt.input))
		})
	}
}
