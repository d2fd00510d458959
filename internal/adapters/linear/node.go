package linear

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tgr/internal/adapters/detector"
)

// NodeID is the unique identifier for the renderer factory Graft node.
const NodeID graft.ID = "adapter.linear"

// Factory creates renderers once the output mode of a run is known.
type Factory struct {
	env detector.Environment
}

// New returns a renderer on the process stdout and stderr for the requested mode.
func (f *Factory) New(mode detector.OutputMode) *Renderer {
	return NewRenderer(nil, nil, detector.Resolve(mode, f.env))
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Factory, error) {
			return &Factory{env: detector.DetectEnvironment()}, nil
		},
	})
}
