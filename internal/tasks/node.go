package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/tgr/internal/adapters/shell" //nolint:depguard // Wired in tasks wiring
	"go.trai.ch/tgr/internal/core/ports"
)

// NodeID is the unique identifier for the task registry Graft node.
const NodeID graft.ID = "engine.tasks"

// downloadTimeout bounds a single download request.
const downloadTimeout = 10 * time.Minute

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(executor, &http.Client{Timeout: downloadTimeout}), nil
		},
	})
}
