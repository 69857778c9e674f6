package app

import (
	"io"

	"go.trai.ch/scribe/internal/adapters/metrics"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App     *App
	Logger  ports.Logger
	Config  *domain.Config
	Metrics *metrics.Recorder

	persistence ports.LocalPersistence
}

// Close releases the local persistence.
func (c *Components) Close() error {
	if closer, ok := c.persistence.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
