// Package shell runs external commands for command tasks.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor with os/exec. Commands run in a
// pseudo-terminal where the platform supports one, so tools keep their
// interactive formatting; stdout and stderr are merged.
type Executor struct {
	logger ports.Logger
	sysEnv func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		sysEnv: os.Environ,
	}
}

// Execute runs c and streams its output to out.
func (e *Executor) Execute(ctx context.Context, c ports.Command, out io.Writer) error {
	if len(c.Args) == 0 {
		return zerr.With(domain.ErrCommandFailed, "reason", "empty command")
	}

	env := resolveEnvironment(e.sysEnv(), c.Env)
	name := c.Args[0]
	executable := name
	if !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args[1:]...) //nolint:gosec // Commands come from the project config.
	cmd.Args[0] = name
	cmd.Dir = c.WorkingDir
	cmd.Env = env

	logOut := &logWriter{logger: e.logger, command: name}
	w := io.MultiWriter(out, logOut)
	defer func() { _ = logOut.Close() }()

	e.logger.Debug("running command", "args", strings.Join(c.Args, " "), "dir", c.WorkingDir)

	err := runPTY(cmd, w)
	if errors.Is(err, pty.ErrUnsupported) {
		cmd = exec.CommandContext(ctx, executable, c.Args[1:]...) //nolint:gosec // Commands come from the project config.
		cmd.Args[0] = name
		cmd.Dir = c.WorkingDir
		cmd.Env = env
		cmd.Stdout = w
		cmd.Stderr = w
		err = cmd.Run()
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", name), "exit_code", exitCode)
	}
	return nil
}

// runPTY starts cmd on a pseudo-terminal and copies its output to w until it exits.
func runPTY(cmd *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading fails with EIO once the child side closes.
		_, _ = io.Copy(w, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

// logWriter mirrors command output to the debug log line by line.
type logWriter struct {
	logger  ports.Logger
	command string
	buf     []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Debug(strings.TrimSuffix(string(line), "\r"), "command", w.command)
}

// allowListedEnvVars are inherited from the tgr process. Everything else a
// command sees comes from the task.
var allowListedEnvVars = map[string]struct{}{
	"HOME":       {},
	"PATH":       {},
	"SYSTEMROOT": {},
	"TERM":       {},
	"TMPDIR":     {},
	"USER":       {},
}

// resolveEnvironment merges the allow-listed system variables with the task
// variables, which win. The result is sorted by name.
func resolveEnvironment(sysEnv, taskEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			if _, allowed := allowListedEnvVars[strings.ToUpper(k)]; allowed {
				envMap[k] = v
			}
		}
	}
	for _, entry := range taskEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches PATH from env instead of the tgr process environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(file string) bool {
	d, err := os.Stat(file)
	if err != nil {
		return false
	}
	return !d.IsDir() && d.Mode()&0o111 != 0
}
