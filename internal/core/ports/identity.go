package ports

// IdentityProvider reports the current author account.
//
//go:generate go run go.uber.org/mock/mockgen -source=identity.go -destination=mocks/mock_identity.go -package=mocks
type IdentityProvider interface {
	// AccountID returns the author account, or false when unauthenticated.
	AccountID() (string, bool)
}
