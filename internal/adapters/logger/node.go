package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

type jsonKey struct{}

// WithJSON returns a context asking the logger node for JSON output.
func WithJSON(ctx context.Context, enable bool) context.Context {
	return context.WithValue(ctx, jsonKey{}, enable)
}

// JSONFromContext reports whether ctx asks for JSON output.
func JSONFromContext(ctx context.Context) bool {
	enable, _ := ctx.Value(jsonKey{}).(bool)
	return enable
}

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Logger, error) {
			l := New()
			if JSONFromContext(ctx) {
				l.SetJSON(true)
			}
			return l, nil
		},
	})
}
