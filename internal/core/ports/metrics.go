package ports

import (
	"math/big"
	"time"

	"go.trai.ch/scribe/internal/core/domain"
)

// CommitMetrics records commit activity.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type CommitMetrics interface {
	// SessionStarted is called when a commit session begins preparing.
	SessionStarted()
	// SessionFinished is called once per session with its outcome and duration.
	SessionFinished(outcome domain.CommitOutcome, elapsed time.Duration)
	// PayloadPrepared records the size of a prepared, non-empty payload.
	PayloadPrepared(bytes int64)
	// DepositSubmitted records the total deposit attached to a submitted transaction.
	DepositSubmitted(deposit *big.Int)
}
