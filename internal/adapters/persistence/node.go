package persistence

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the local persistence Graft node.
const NodeID graft.ID = "adapter.persistence"

func init() {
	graft.Register(graft.Node[ports.LocalPersistence]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.LocalPersistence, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg)
		},
	})
}
