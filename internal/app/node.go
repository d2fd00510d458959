package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	"go.trai.ch/tgr/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/tgr/internal/engine/scheduler"
	"go.trai.ch/tgr/internal/tasks"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the wired application.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			tasks.NodeID,
			logger.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			metrics.NodeID,
			telemetry.TracerNodeID,
			linear.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

//nolint:cyclop // dependency collection
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*tasks.Registry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	states, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tracer.Provider())

	renderers, err := graft.Dep[*linear.Factory](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[*watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sched, registry, log, states, hasher, m, tracer).
		WithRenderers(func(mode detector.OutputMode) ports.Renderer { return renderers.New(mode) }).
		WithWatchers(watchers.New), nil
}
