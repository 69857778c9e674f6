package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			var opts []trace.TracerProviderOption
			// Span lines are only useful to machine consumers of the JSON log.
			if cfg.JSONLogs {
				opts = append(opts, trace.WithSpanProcessor(NewLogBridge(log)))
			}
			return NewOTelTracer(trace.NewTracerProvider(opts...)), nil
		},
	})
}
