package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/adapters/metrics"
	"go.trai.ch/tgr/internal/core/domain"
)

func counterValue(t *testing.T, p *metrics.Prometheus, task, outcome string) float64 {
	t.Helper()
	families, err := p.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "tgr_tasks_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["task"] == task && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPrometheus_Counters(t *testing.T) {
	t.Parallel()

	p := metrics.NewPrometheus()
	p.TaskExecuted("build", 2*time.Second)
	p.TaskExecuted("build", time.Second)
	p.TaskCached("lint")
	p.TaskFailed("test")
	p.LockWaited(5 * time.Millisecond)

	assert.InDelta(t, 2.0, counterValue(t, p, "build", "executed"), 0)
	assert.InDelta(t, 1.0, counterValue(t, p, "lint", "cached"), 0)
	assert.InDelta(t, 1.0, counterValue(t, p, "test", "failed"), 0)
	assert.InDelta(t, 0.0, counterValue(t, p, "build", "cached"), 0)
}

func TestPrometheus_WriteTo(t *testing.T) {
	t.Parallel()

	p := metrics.NewPrometheus()
	p.TaskExecuted("build", time.Second)
	p.LockWaited(time.Millisecond)

	path := filepath.Join(t.TempDir(), "tgr.prom")
	require.NoError(t, p.WriteTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `tgr_tasks_total{outcome="executed",task="build"} 1`)
	assert.Contains(t, text, `tgr_task_duration_seconds_count{task="build"} 1`)
	assert.Contains(t, text, "tgr_lock_wait_seconds_count 1")
}

func TestPrometheus_WriteTo_Error(t *testing.T) {
	t.Parallel()

	p := metrics.NewPrometheus()
	err := p.WriteTo(filepath.Join(t.TempDir(), "missing", "tgr.prom"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMetricsWriteFailed.Error())
}
