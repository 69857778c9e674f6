package identity

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the identity provider Graft node.
const NodeID graft.ID = "adapter.identity"

func init() {
	graft.Register(graft.Node[ports.IdentityProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.IdentityProvider, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			p, err := Load(cfg.TokenEnv, cfg.TokenFile)
			if err != nil {
				// Reading drafts works without an account; commits will report it.
				log.Error(err)
				return Anonymous(), nil
			}
			return p, nil
		},
	})
}
