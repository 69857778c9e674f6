package drafts

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/adapters/persistence"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the draft store Graft node.
const NodeID graft.ID = "engine.drafts"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{persistence.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			p, err := graft.Dep[ports.LocalPersistence](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(p, log), nil
		},
	})
}
