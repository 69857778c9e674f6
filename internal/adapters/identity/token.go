// Package identity resolves the author account from a wallet session token.
package identity

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

// AccountClaim is the token claim carrying the author account.
const AccountClaim = "account_id"

var _ ports.IdentityProvider = (*Provider)(nil)

// Provider implements ports.IdentityProvider from a session token.
// The token is issued and verified by the wallet; scribe only reads its claims.
type Provider struct {
	account string
	expires time.Time
	now     func() time.Time
}

// Anonymous returns a provider without an account.
func Anonymous() *Provider {
	return &Provider{now: time.Now}
}

// FromToken parses a session token.
func FromToken(token string) (*Provider, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous(), nil
	}

	parsed, _, err := gojwt.NewParser().ParseUnverified(token, gojwt.MapClaims{})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSessionToken.Error())
	}
	claims := parsed.Claims.(gojwt.MapClaims)

	account, _ := claims[AccountClaim].(string)
	if account == "" {
		return nil, zerr.With(domain.ErrInvalidSessionToken, "missing_claim", AccountClaim)
	}

	p := &Provider{account: account, now: time.Now}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSessionToken.Error())
	}
	if exp != nil {
		p.expires = exp.Time
	}
	return p, nil
}

// Load reads the token from the env var, falling back to the token file.
func Load(envVar, file string) (*Provider, error) {
	if envVar != "" {
		if token := os.Getenv(envVar); token != "" {
			return FromToken(token)
		}
	}
	if file == "" {
		return Anonymous(), nil
	}

	//nolint:gosec // Path comes from the user's own config
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Anonymous(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSessionToken.Error()), "path", file)
	}
	return FromToken(string(data))
}

// WithClock replaces the clock used for expiry checks.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// AccountID implements ports.IdentityProvider. An expired token yields no account.
func (p *Provider) AccountID() (string, bool) {
	if p.account == "" {
		return "", false
	}
	if !p.expires.IsZero() && !p.now().Before(p.expires) {
		return "", false
	}
	return p.account, true
}
