// Package persistence selects the local draft store backend.
package persistence

import (
	"go.trai.ch/scribe/internal/adapters/cas"
	"go.trai.ch/scribe/internal/adapters/sqlite"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

// New opens the backend named by cfg.StoreBackend under cfg.StateDir.
func New(cfg *domain.Config) (ports.LocalPersistence, error) {
	switch cfg.StoreBackend {
	case domain.BackendSQLite, "":
		return sqlite.Open(domain.DatabasePath(cfg.StateDir))
	case domain.BackendFiles:
		return cas.NewStore(domain.StorePath(cfg.StateDir))
	default:
		return nil, zerr.With(domain.ErrStoreCreateFailed, "backend", cfg.StoreBackend)
	}
}
