package commit

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/adapters/identity"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/adapters/metrics"
	"go.trai.ch/scribe/internal/adapters/rpc"
	"go.trai.ch/scribe/internal/adapters/telemetry"
	"go.trai.ch/scribe/internal/adapters/wallet"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/drafts"
)

// NodeID is the unique identifier for the commit executor Graft node.
const NodeID graft.ID = "engine.commit"

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			rpc.NodeID,
			wallet.NodeID,
			identity.NodeID,
			drafts.NodeID,
			telemetry.NodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Executor, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			remote, err := graft.Dep[ports.RemoteReader](ctx)
			if err != nil {
				return nil, err
			}
			submitter, err := graft.Dep[ports.TransactionSubmitter](ctx)
			if err != nil {
				return nil, err
			}
			ident, err := graft.Dep[ports.IdentityProvider](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[*drafts.Store](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.CommitMetrics](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			exec := NewExecutor(
				NewPreparer(remote, cfg.CostPerByte),
				submitter,
				ident,
				store,
				NewPermissionSet(),
				tracer,
				m,
				log,
			)
			return exec.WithExtraStorageOptions(cfg.ExtraStorageOptions), nil
		},
	})
}
