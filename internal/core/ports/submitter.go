package ports

import (
	"context"
	"math/big"

	"go.trai.ch/scribe/internal/core/domain"
)

// TransactionSubmitter signs and sends registry writes.
//
//go:generate go run go.uber.org/mock/mockgen -source=submitter.go -destination=mocks/mock_submitter.go -package=mocks
type TransactionSubmitter interface {
	// Submit writes payload with the attached deposit (in yoctoNEAR).
	// It may block while the author approves the transaction in their wallet.
	Submit(ctx context.Context, payload domain.Tree, deposit *big.Int) (domain.TransactionResult, error)
}
