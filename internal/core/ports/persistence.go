// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/scribe/internal/core/domain"
)

// LocalPersistence is the durable local storage behind the draft store.
// Entries survive process restarts.
//
//go:generate go run go.uber.org/mock/mockgen -source=persistence.go -destination=mocks/mock_persistence.go -package=mocks
type LocalPersistence interface {
	// Write stores the entry under (entry.Domain, entry.Descriptor), replacing any previous value.
	Write(entry domain.CacheEntry) error

	// Read returns the entry stored under (d, desc).
	// Returns nil, nil if not found.
	Read(ctx context.Context, d domain.CacheDomain, desc domain.Descriptor) (*domain.CacheEntry, error)

	// Delete removes the entry stored under (d, desc). Deleting a missing entry is not an error.
	Delete(d domain.CacheDomain, desc domain.Descriptor) error

	// List returns the descriptors of every entry in d.
	List(ctx context.Context, d domain.CacheDomain) ([]domain.Descriptor, error)
}
