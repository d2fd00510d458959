package tasks_test

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/task"
	"go.trai.ch/tgr/internal/tasks"
)

func downloadSpec(url string, extra ...domain.InputSpec) domain.TaskSpec {
	return domain.TaskSpec{
		Name:    "fetch",
		Type:    tasks.TypeDownload,
		Outputs: map[string]string{"out": "bin"},
		Inputs:  append([]domain.InputSpec{{Name: "url", Form: domain.FormValue, Value: url}}, extra...),
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	body := "payload"
	sum := sha256.Sum256([]byte(body))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	project := newProject(t, downloadSpec(srv.URL,
		domain.InputSpec{Name: "sha256", Form: domain.FormValue, Value: hex.EncodeToString(sum[:])},
	))
	c := runProject(t, tasks.NewRegistry(nil, srv.Client()), project, nil)
	assert.Equal(t, body, readOutput(t, c, "fetch"))
}

func TestDownload_Failures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("tampered"))
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		spec    domain.TaskSpec
		wantErr error
	}{
		{
			name:    "not found",
			spec:    downloadSpec(srv.URL + "/missing"),
			wantErr: domain.ErrDownloadFailed,
		},
		{
			name: "checksum mismatch",
			spec: downloadSpec(srv.URL+"/file",
				domain.InputSpec{Name: "sha256", Form: domain.FormValue, Value: "00"},
			),
			wantErr: domain.ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			project := newProject(t, tt.spec)
			c, built := buildContext(t, tasks.NewRegistry(nil, srv.Client()), project)

			_, err := built[0].Execute(t.Context(), c, nil)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

type clock struct {
	task.Context
	now time.Time
}

func (c clock) Now() time.Time { return c.now }

func TestDownload_MaxAge(t *testing.T) {
	t.Parallel()

	project := newProject(t, downloadSpec("http://example.invalid",
		domain.InputSpec{Name: "maxAge", Form: domain.FormValue, Value: "1h"},
	))
	built, err := tasks.NewRegistry(nil, nil).Build(project, input.Parameters{})
	require.NoError(t, err)

	fresh, ok := built[0].Kind().(task.Freshness)
	require.True(t, ok)

	executed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	upToDate, err := fresh.UpToDate(executed, clock{now: executed.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.True(t, upToDate)

	upToDate, err = fresh.UpToDate(executed, clock{now: executed.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, upToDate)
}
