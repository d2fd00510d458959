package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tgr/internal/adapters/logger"
	"go.trai.ch/tgr/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a fresh watcher for every watch cycle.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a watcher factory logging through logger.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// New creates an unstarted watcher.
func (f *Factory) New() (ports.Watcher, error) {
	return NewWatcher(f.logger)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})
}
