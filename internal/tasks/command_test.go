package tasks_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/core/ports/mocks"
	"go.trai.ch/tgr/internal/tasks"
	"go.uber.org/mock/gomock"
)

func TestCommand_Environment(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	project := newProject(t, domain.TaskSpec{
		Name:    "gen",
		Type:    tasks.TypeCommand,
		Outputs: map[string]string{"out": "txt", "report": "json"},
		Inputs: []domain.InputSpec{
			{Name: "command", Form: domain.FormValue, Value: []any{"make", "gen"}},
			{Name: "src-file", Form: domain.FormFile},
			{Name: "flags", Form: domain.FormValue, Value: []any{"-O2", "-g"}},
		},
	})
	src := filepath.Join(project.Root, "main.c")
	require.NoError(t, os.WriteFile(src, []byte("int main;"), 0o644))
	project.Tasks[0].Inputs[1].Path = src

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c ports.Command, out io.Writer) error {
			assert.Equal(t, []string{"make", "gen"}, c.Args)
			assert.Equal(t, project.Root, c.WorkingDir)
			require.Len(t, c.Env, 4)
			assert.Equal(t, "TGR_INPUT_SRC_FILE="+src, c.Env[0])
			assert.Equal(t, "TGR_INPUT_FLAGS=-O2,-g", c.Env[1])

			for _, entry := range c.Env[2:] {
				_, path, ok := strings.Cut(entry, "=")
				require.True(t, ok)
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
			}
			assert.Contains(t, c.Env[2], "TGR_OUTPUT_OUT=")
			assert.Contains(t, c.Env[3], "TGR_OUTPUT_REPORT=")
			_, err := out.Write([]byte("done\n"))
			return err
		})

	runProject(t, tasks.NewRegistry(executor, nil), project, nil)
}

func TestCommand_Failure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	project := newProject(t, domain.TaskSpec{
		Name:    "fail",
		Type:    tasks.TypeCommand,
		Outputs: map[string]string{"out": "txt"},
		Inputs: []domain.InputSpec{
			{Name: "command", Form: domain.FormValue, Value: "false"},
		},
	})
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrCommandFailed)

	c, built := buildContext(t, tasks.NewRegistry(executor, nil), project)
	_, err := built[0].Execute(context.Background(), c, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())
	assert.ErrorContains(t, err, domain.ErrCommandFailed.Error())
}
