package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/identity"    //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/metrics"     //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/persistence" //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/rpc"         //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/scribe/internal/engine/registry"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

type jsonSetter interface {
	SetJSON(enable bool)
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			drafts.NodeID,
			registry.NodeID,
			commit.NodeID,
			rpc.NodeID,
			identity.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			metrics.RecorderNodeID,
			persistence.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	store, err := graft.Dep[*drafts.Store](ctx)
	if err != nil {
		return nil, err
	}
	reg, err := graft.Dep[*registry.Registry](ctx)
	if err != nil {
		return nil, err
	}
	exec, err := graft.Dep[*commit.Executor](ctx)
	if err != nil {
		return nil, err
	}
	remote, err := graft.Dep[ports.RemoteReader](ctx)
	if err != nil {
		return nil, err
	}
	ident, err := graft.Dep[ports.IdentityProvider](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.SourceWatcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(store, reg, exec, remote, ident, w, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	rec, err := graft.Dep[*metrics.Recorder](ctx)
	if err != nil {
		return nil, err
	}
	p, err := graft.Dep[ports.LocalPersistence](ctx)
	if err != nil {
		return nil, err
	}

	if cfg.JSONLogs {
		if j, ok := log.(jsonSetter); ok {
			j.SetJSON(true)
		}
	}

	return &Components{
		App:         a,
		Logger:      log,
		Config:      cfg,
		Metrics:     rec,
		persistence: p,
	}, nil
}
