package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownKind is returned when an artifact kind is not one of the known kinds.
	ErrUnknownKind = zerr.New("unknown artifact kind")

	// ErrInvalidName is returned when a draft name is empty or blank.
	ErrInvalidName = zerr.New("invalid draft name")

	// ErrInvalidRemoteKey is returned when a remote key cannot be parsed as account/kind/name.
	ErrInvalidRemoteKey = zerr.New("invalid remote key, expected account/kind/name")

	// ErrPathNotOpen is returned when an operation targets a file that is not in the open-file set.
	ErrPathNotOpen = zerr.New("file is not open")

	// ErrNotAuthenticated is returned when a commit is requested without an author account.
	ErrNotAuthenticated = zerr.New("no author account, sign in to commit")

	// ErrEmptyCommit is returned when a commit is requested without any data.
	ErrEmptyCommit = zerr.New("nothing to commit")

	// ErrPreparationFailed is returned when the remote state needed to prepare a commit cannot be read.
	ErrPreparationFailed = zerr.New("failed to prepare commit")

	// ErrSubmissionFailed is returned when the commit transaction is rejected or cannot be sent.
	ErrSubmissionFailed = zerr.New("failed to submit commit transaction")

	// ErrConcurrentCommit is returned when a different payload is committed to a target that is already submitting.
	ErrConcurrentCommit = zerr.New("another commit for this target is already being submitted")

	// ErrNotReadyToConfirm is returned when a session is confirmed outside of the confirmation state.
	ErrNotReadyToConfirm = zerr.New("commit session is not awaiting confirmation")

	// ErrAlreadyConfirmed is returned when a session receives a second confirmation.
	ErrAlreadyConfirmed = zerr.New("commit session is already confirmed")

	// ErrCancelNotAllowed is returned when cancelling a session that has started submitting.
	ErrCancelNotAllowed = zerr.New("commit can no longer be cancelled")

	// ErrInvalidExtraStorage is returned when the optional storage deposit is not one of the offered budgets.
	ErrInvalidExtraStorage = zerr.New("invalid extra storage budget")

	// ErrInvalidCostPerByte is returned when the configured storage cost cannot be parsed.
	ErrInvalidCostPerByte = zerr.New("invalid storage cost per byte")

	// ErrStoreCreateFailed is returned when the local draft store cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create draft store")

	// ErrStoreReadFailed is returned when a draft entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read draft entry")

	// ErrStoreWriteFailed is returned when a draft entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write draft entry")

	// ErrStoreDeleteFailed is returned when a draft entry cannot be removed.
	ErrStoreDeleteFailed = zerr.New("failed to delete draft entry")

	// ErrStoreMarshalFailed is returned when a draft value cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal draft entry")

	// ErrStoreUnmarshalFailed is returned when a draft value cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal draft entry")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrRemoteRequestFailed is returned when a request to the remote node fails.
	ErrRemoteRequestFailed = zerr.New("failed to query remote node")

	// ErrRemoteParseFailed is returned when a remote node response cannot be decoded.
	ErrRemoteParseFailed = zerr.New("failed to parse remote node response")

	// ErrRemoteNotFound is returned when an artifact does not exist in the remote registry.
	ErrRemoteNotFound = zerr.New("artifact not found in remote registry")

	// ErrWalletUnavailable is returned when the wallet bridge cannot be reached.
	ErrWalletUnavailable = zerr.New("wallet bridge unavailable")

	// ErrWalletRejected is returned when the wallet refuses to sign the transaction.
	ErrWalletRejected = zerr.New("wallet rejected transaction")

	// ErrInvalidSessionToken is returned when the session token cannot be parsed.
	ErrInvalidSessionToken = zerr.New("invalid session token")

	// ErrWatchFailed is returned when a source file cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch source file")
)
