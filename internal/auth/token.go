// Package auth inspects the launch token the prompt API issues to a learner.
//
// The token is a JWT signed by the API. The client never holds the signing
// key, so claims are read without verification; the server remains the
// authority on validity.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RenewWindow is how close to expiry a token may get before it should be
// renewed.
const RenewWindow = 5 * time.Hour

// ErrNoToken is returned when no launch token is configured.
var ErrNoToken = errors.New("auth: no launch token")

// Token is a parsed launch token.
type Token struct {
	raw    string
	claims jwt.MapClaims
}

// Parse decodes the claims of raw without verifying its signature.
func Parse(raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("auth: parse launch token: %w", err)
	}
	return &Token{raw: raw, claims: claims}, nil
}

// Raw returns the encoded token.
func (t *Token) Raw() string { return t.raw }

// Claims returns a copy of the token's claims.
func (t *Token) Claims() map[string]any {
	out := make(map[string]any, len(t.claims))
	for k, v := range t.claims {
		out[k] = v
	}
	return out
}

// Subject returns the sub claim, if any.
func (t *Token) Subject() string {
	sub, _ := t.claims.GetSubject()
	return sub
}

// ExpiresAt returns the exp claim. ok is false when the claim is missing or
// malformed.
func (t *Token) ExpiresAt() (time.Time, bool) {
	exp, err := t.claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ShouldRenew reports whether the token lacks an expiry or expires within
// RenewWindow of now.
func (t *Token) ShouldRenew(now time.Time) bool {
	exp, ok := t.ExpiresAt()
	if !ok {
		return true
	}
	return exp.Sub(now) < RenewWindow
}

// ShouldRenew is the package-level form used when the token may be absent.
// A missing or undecodable token always needs renewing.
func ShouldRenew(raw string, now time.Time) bool {
	t, err := Parse(raw)
	if err != nil {
		return true
	}
	return t.ShouldRenew(now)
}

// RenewURL builds the URL a learner opens to obtain a fresh token.
// returnTo is where the API redirects afterwards.
func RenewURL(apiBase, returnTo string, forceRelogin bool) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiBase, "/") + "/user/token")
	if err != nil {
		return "", fmt.Errorf("auth: build renew url: %w", err)
	}
	q := u.Query()
	if returnTo != "" {
		q.Set("r", returnTo)
	}
	if forceRelogin {
		q.Set("force_relogin", "true")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
