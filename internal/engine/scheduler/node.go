package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tgr/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tgr/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tgr/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			telemetry.TracerNodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(tracer, m), nil
		},
	})
}
