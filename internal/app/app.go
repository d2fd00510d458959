// Package app implements the application layer for tgr.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/tgr/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/lock"      //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/input"
	"go.trai.ch/tgr/internal/engine/invocation"
	"go.trai.ch/tgr/internal/engine/scheduler"
	"go.trai.ch/tgr/internal/tasks"
	"go.trai.ch/zerr"
)

// RendererFactory creates the progress renderer of one run.
type RendererFactory func(mode detector.OutputMode) ports.Renderer

// WatcherFactory creates the watcher of one watch cycle.
type WatcherFactory func() (ports.Watcher, error)

// configurableLogger is implemented by loggers whose format can change at runtime.
type configurableLogger interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	registry     *tasks.Registry
	logger       ports.Logger
	states       ports.StateStore
	hasher       ports.Hasher
	metrics      ports.Metrics
	tracer       *telemetry.OTelTracer
	renderers    RendererFactory
	watchers     WatcherFactory
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	registry *tasks.Registry,
	log ports.Logger,
	states ports.StateStore,
	hasher ports.Hasher,
	metrics ports.Metrics,
	tracer *telemetry.OTelTracer,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		registry:     registry,
		logger:       log,
		states:       states,
		hasher:       hasher,
		metrics:      metrics,
		tracer:       tracer,
		debounce:     defaultDebounce,
	}
}

// WithRenderers sets the factory creating the renderer of each run.
// Without one, runs report progress through the logger only.
func (a *App) WithRenderers(f RendererFactory) *App {
	a.renderers = f
	return a
}

// WithWatchers sets the factory creating the watcher of each watch cycle.
func (a *App) WithWatchers(f WatcherFactory) *App {
	a.watchers = f
	return a
}

// WithDebounce sets how long watch mode waits for changes to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Dir is the directory the configuration is searched from. Empty means the working directory.
	Dir string
	// ConfigPath selects a configuration file instead of searching for one.
	ConfigPath string
	// NoCache executes every task even when a cache entry matches.
	NoCache bool
	// Params are name=value assignments overriding configured parameters.
	Params []string
	// EnvFile is a dotenv file providing parameter values.
	EnvFile string
	// MetricsFile receives the run metrics in the Prometheus text format.
	MetricsFile string
	// OutputMode is auto, compact or linear.
	OutputMode string
	// Watch re-runs the request whenever one of its input files changes.
	Watch   bool
	Verbose bool
	JSON    bool
}

// Run executes the requested tasks and copies the requested outputs.
func (a *App) Run(ctx context.Context, args []string, opts RunOptions) error {
	a.configureLogger(opts.Verbose, opts.JSON)

	if len(args) == 0 {
		return domain.ErrNoRequests
	}
	req, err := domain.ParseRequests(args)
	if err != nil {
		return err
	}
	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	flags, err := input.ParseAssignments(opts.Params)
	if err != nil {
		return zerr.Wrap(err, domain.ErrInvalidParameter.Error())
	}
	cwd, err := workDir(opts.Dir)
	if err != nil {
		return err
	}

	r := &run{
		app:   a,
		cwd:   cwd,
		req:   absoluteDestinations(req, cwd),
		flags: flags,
		mode:  mode,
		opts:  opts,
	}
	if opts.Watch {
		return a.watch(ctx, r)
	}
	_, err = r.once(ctx)
	return err
}

// run carries the resolved options of one Run call across watch cycles.
type run struct {
	app   *App
	cwd   string
	req   domain.Request
	flags input.Parameters
	mode  detector.OutputMode
	opts  RunOptions
}

// once performs a single build and returns the files whose change invalidates it.
// The returned paths are nil when the configuration could not be loaded.
func (r *run) once(ctx context.Context) ([]string, error) {
	a := r.app
	project, err := a.configLoader.Load(r.cwd, r.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	watched := []string{project.ConfigPath}

	params := r.flags
	if r.opts.EnvFile != "" {
		envPath := absolute(r.cwd, r.opts.EnvFile)
		watched = append(watched, envPath)
		values, err := godotenv.Read(envPath)
		if err != nil {
			return watched, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", envPath)
		}
		params = input.FromStrings(values).Merge(r.flags)
	}

	built, err := a.registry.Build(project, params)
	if err != nil {
		return watched, err
	}
	resolver, err := fs.NewArtifactResolver(project.Root, project.Artifacts)
	if err != nil {
		return watched, err
	}
	locks := lock.NewManager(project.CacheRoot, a.logger, lock.Options{
		RetryInterval: project.LockRetryInterval,
		Timeout:       project.LockTimeout,
	})

	c, err := invocation.New(invocation.Options{
		CacheRoot:   project.CacheRoot,
		UseCached:   !r.opts.NoCache,
		Parallelism: project.Parallelism,
	}, built, invocation.Services{
		Locks:     locks,
		States:    a.states,
		Artifacts: resolver,
		Hasher:    a.hasher,
		Logger:    a.logger,
	})
	if err != nil {
		return watched, err
	}
	watched = append(watched, inputFiles(c, r.req)...)

	report, err := a.execute(ctx, c, r.req, r.mode)
	a.summarize(report)

	if r.opts.MetricsFile != "" {
		if werr := a.metrics.WriteTo(absolute(r.cwd, r.opts.MetricsFile)); werr != nil {
			a.logger.Warn("failed to write metrics", "error", werr.Error())
		}
	}

	if err != nil {
		return watched, errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return watched, nil
}

// execute runs the scheduler inside a run span, rendering progress when a renderer is configured.
func (a *App) execute(
	ctx context.Context,
	c *invocation.Context,
	req domain.Request,
	mode detector.OutputMode,
) (*scheduler.Report, error) {
	if a.renderers != nil {
		renderer := a.renderers(mode)
		if err := renderer.Start(ctx); err != nil {
			return nil, err
		}
		a.tracer.WithRenderer(renderer)
		defer func() {
			a.tracer.WithRenderer(nil)
			_ = renderer.Stop()
		}()
	}

	ctx, span := a.tracer.Start(ctx, domain.SpanRun, ports.WithAttribute(domain.AttrRunID, c.RunID()))
	defer span.End()

	a.logger.Debug("starting run", "run_id", c.RunID(), "tasks", req.Tasks())
	report, err := a.scheduler.Run(ctx, c, req)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

func (a *App) summarize(report *scheduler.Report) {
	if report == nil {
		return
	}
	var total time.Duration
	for _, res := range report.Results {
		total += res.Duration
	}
	a.logger.Info("run finished",
		"executed", report.Count(domain.TaskStatusExecuted),
		"cached", report.Count(domain.TaskStatusCached),
		"failed", report.Count(domain.TaskStatusFailed),
		"task_time", total.Round(time.Millisecond).String(),
	)
}

func (a *App) configureLogger(verbose, json bool) {
	if l, ok := a.logger.(configurableLogger); ok {
		l.SetVerbose(verbose)
		l.SetJSON(json)
	}
}

// inputFiles lists the workspace files read by the requested tasks and their dependencies.
func inputFiles(c *invocation.Context, req domain.Request) []string {
	var files []string
	seen := make(map[string]bool)
	queue := req.Tasks()
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		t, err := c.Task(name)
		if err != nil {
			continue
		}
		for _, in := range t.Kind().Inputs() {
			files = append(files, input.WatchPaths(in)...)
		}
		queue = append(queue, t.Dependencies()...)
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func absoluteDestinations(req domain.Request, cwd string) domain.Request {
	out := make(domain.Request, len(req))
	for name, outputs := range req {
		copies := make(map[string]string, len(outputs))
		for output, dest := range outputs {
			copies[output] = absolute(cwd, dest)
		}
		out[name] = copies
	}
	return out
}

func workDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	return os.Getwd()
}

func absolute(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
