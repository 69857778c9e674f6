package ports

import (
	"context"

	"go.trai.ch/scribe/internal/core/domain"
)

// RemoteReader reads ground truth from the remote registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks
type RemoteReader interface {
	// FetchValue returns the artifact subtree stored under key.
	// The boolean is false when nothing is stored there.
	FetchValue(ctx context.Context, key domain.RemoteKey) (domain.Tree, bool, error)

	// FetchBalance returns the number of storage bytes the account has already paid for and not used.
	FetchBalance(ctx context.Context, account string) (int64, error)
}

// CacheInvalidator drops cached state for a remote key after it was committed.
type CacheInvalidator interface {
	// Invalidate forgets everything cached for key so the next read reflects remote ground truth.
	Invalidate(key domain.RemoteKey)
}
