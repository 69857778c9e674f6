package wallet

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the transaction submitter Graft node.
const NodeID graft.ID = "adapter.wallet"

func init() {
	graft.Register(graft.Node[ports.TransactionSubmitter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.TransactionSubmitter, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewBridge(cfg.WalletURL, cfg.Contract), nil
		},
	})
}
