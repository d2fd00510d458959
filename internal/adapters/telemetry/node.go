package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer of every span tgr emits.
const InstrumentationName = "tgr"

func init() {
	graft.Register(graft.Node[*OTelTracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*OTelTracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}
