package domain

import (
	"math/big"
	"strings"

	"go.trai.ch/zerr"
)

// RemoteKey addresses one artifact in the remote registry.
type RemoteKey struct {
	Account string
	Kind    ArtifactKind
	Name    string
}

// NewRemoteKey returns the remote key of path under the author account.
func NewRemoteKey(account string, path LogicalPath) RemoteKey {
	return RemoteKey{Account: account, Kind: path.Kind, Name: path.Name}
}

// ParseRemoteKey parses "account/kind/name".
func ParseRemoteKey(s string) (RemoteKey, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return RemoteKey{}, zerr.With(ErrInvalidRemoteKey, "key", s)
	}
	kind, err := ParseKind(parts[1])
	if err != nil {
		return RemoteKey{}, err
	}
	return RemoteKey{Account: parts[0], Kind: kind, Name: parts[2]}, nil
}

// String returns "account/kind/name".
func (k RemoteKey) String() string {
	return k.Account + "/" + string(k.Kind) + "/" + k.Name
}

// Path returns the logical path the key points at.
func (k RemoteKey) Path() LogicalPath {
	return NewPath(k.Kind, k.Name)
}

// Matcher selects draft store descriptors for the artifact the key points at.
func (k RemoteKey) Matcher() DescriptorMatcher {
	return MatchPath(k.Kind, k.Name)
}

// Document wraps an artifact subtree into the full registry document.
func (k RemoteKey) Document(sub Tree) Tree {
	return Tree{k.Account: Tree{string(k.Kind): Tree{k.Name: sub}}}
}

// PreparedCommit is the outcome of diffing a desired value against remote state.
type PreparedCommit struct {
	Key RemoteKey
	// Payload is the full registry document to write; nil when IsNoop.
	Payload Tree
	// PayloadBytes is the serialized size of Payload.
	PayloadBytes int64
	// FundedBytes is the storage the account has already paid for.
	FundedBytes int64
	// RequiredDeposit is the deposit needed to store Payload.
	RequiredDeposit *big.Int
	IsNoop          bool
	// Fingerprint identifies the desired value the commit was prepared from.
	Fingerprint uint64
	// Memoized is set when the preparation was served without a remote round-trip.
	Memoized bool
}

// RequiredBytes returns the net storage growth the required deposit pays for.
func (p PreparedCommit) RequiredBytes() int64 {
	return max(0, p.PayloadBytes-p.FundedBytes)
}

// CommitState is the state of a commit session.
type CommitState uint8

const (
	// StateIdle means no work is in flight.
	StateIdle CommitState = iota
	// StatePreparing means remote state is being read and diffed.
	StatePreparing
	// StateReadyToConfirm means the prepared commit awaits author confirmation.
	StateReadyToConfirm
	// StateSubmitting means the signed transaction has been sent.
	StateSubmitting
	// StateSettling means the transaction was acknowledged and caches are being refreshed.
	StateSettling
	// StateFailed means the submission failed.
	StateFailed
)

// String returns the state name.
func (s CommitState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePreparing:
		return "Preparing"
	case StateReadyToConfirm:
		return "ReadyToConfirm"
	case StateSubmitting:
		return "Submitting"
	case StateSettling:
		return "Settling"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Active reports whether a session in this state still holds its target.
func (s CommitState) Active() bool {
	return s != StateIdle && s != StateFailed
}

// CommitOutcome is how a finished session ended.
type CommitOutcome string

const (
	// OutcomeCommitted means the transaction was acknowledged.
	OutcomeCommitted CommitOutcome = "committed"
	// OutcomeNothingToSave means the desired value already matched remote state.
	OutcomeNothingToSave CommitOutcome = "nothing-to-save"
	// OutcomeCancelled means the author closed the commit before submission.
	OutcomeCancelled CommitOutcome = "cancelled"
	// OutcomeSuperseded means a newer request for the same target replaced the session.
	OutcomeSuperseded CommitOutcome = "superseded"
	// OutcomePreparationFailed means remote state could not be read.
	OutcomePreparationFailed CommitOutcome = "preparation-failed"
	// OutcomeSubmissionFailed means the transaction failed.
	OutcomeSubmissionFailed CommitOutcome = "submission-failed"
)

// CommitOptions tune a commit request.
type CommitOptions struct {
	// Force skips memoization and always re-reads remote state.
	Force bool
	// SourceComponent is the component asking for the commit, used for write permissions.
	SourceComponent string
}

// ConfirmDecision is the author's answer to a prepared commit.
type ConfirmDecision struct {
	// ExtraStorageBytes is an optional prepaid budget from the offered menu.
	ExtraStorageBytes int64
	// RememberPermission skips confirmation for future commits from the same source to the same target.
	RememberPermission bool
}

// TransactionResult is the acknowledgement of a submitted transaction.
type TransactionResult struct {
	Hash string `json:"tx_hash"`
}

// CommitResult describes a finished commit session.
type CommitResult struct {
	SessionID   string
	Key         RemoteKey
	Outcome     CommitOutcome
	Payload     Tree
	Deposit     *big.Int
	Transaction TransactionResult
}

// WritePermission allows a source component to commit to a target without confirmation.
type WritePermission struct {
	Source string
	Target string
}
