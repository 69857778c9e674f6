package metrics

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/core/ports"
)

// RecorderNodeID is the unique identifier for the Prometheus recorder Graft node.
const RecorderNodeID graft.ID = "adapter.metrics_recorder"

// NodeID is the unique identifier for the commit metrics Graft node.
const NodeID graft.ID = "adapter.metrics"

func init() {
	graft.Register(graft.Node[*Recorder]{
		ID:        RecorderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Recorder, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.CommitMetrics]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RecorderNodeID},
		Run: func(ctx context.Context) (ports.CommitMetrics, error) {
			return graft.Dep[*Recorder](ctx)
		},
	})
}
