package rpc

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the remote reader Graft node.
const NodeID graft.ID = "adapter.rpc"

func init() {
	graft.Register(graft.Node[ports.RemoteReader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.RemoteReader, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.RPCURL, cfg.Contract), nil
		},
	})
}
