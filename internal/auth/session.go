// Package auth resolves account nicknames to cached bearer credentials.
// Interactive authorization is handled elsewhere; this package only loads
// what a previous authorization left behind.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired means the cached token's expiry has passed and the account
// must be re-authorized.
var ErrExpired = errors.New("cached session has expired, re-authorize the account")

// Session is a ready-to-use credential for one account.
type Session struct {
	Account string
	Token   string
}

type storedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Provider loads cached sessions from a token directory, one JSON file per
// account nickname.
type Provider struct {
	dir string
}

// NewProvider returns a provider rooted at dir, defaulting to
// drivesum/tokens under the user config directory.
func NewProvider(dir string) (*Provider, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir = filepath.Join(configDir, "drivesum", "tokens")
	}

	return &Provider{dir: dir}, nil
}

// Session returns the cached session for an account nickname. When the
// cached token is a JWT its expiry claim is checked; opaque tokens are
// trusted as-is.
func (p *Provider) Session(account string) (*Session, error) {
	path := filepath.Join(p.dir, account+".json")

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no cached session for account %q: %w", account, err)
	}

	var stored storedToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode token cache %s: %w", path, err)
	}
	if stored.AccessToken == "" {
		return nil, fmt.Errorf("token cache %s carries no access token", path)
	}

	if err := checkExpiry(stored.AccessToken); err != nil {
		return nil, fmt.Errorf("account %q: %w", account, err)
	}

	return &Session{Account: account, Token: stored.AccessToken}, nil
}

// checkExpiry inspects a JWT expiry claim without verifying the signature.
// The remote service is the authority on validity; this only fails fast on
// tokens that are certainly dead.
func checkExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Not a JWT. Opaque tokens carry no expiry to inspect.
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if time.Now().After(exp.Time) {
		return ErrExpired
	}

	return nil
}
