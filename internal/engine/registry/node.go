package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/engine/drafts"
)

// NodeID is the unique identifier for the path registry Graft node.
const NodeID graft.ID = "engine.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{drafts.NodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			store, err := graft.Dep[*drafts.Store](ctx)
			if err != nil {
				return nil, err
			}
			return New(store), nil
		},
	})
}
