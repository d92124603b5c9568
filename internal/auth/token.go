// Package auth supplies the bearer token attached to every backend call.
//
// The token itself is issued by the backend's login flow, which is not part
// of this module; the client only needs to hold it, attach it, and notice
// when it is missing or expired so requests fail before hitting the network.
//
// WHY PARSE A JWT WITHOUT THE SECRET?
// The client never knows the backend's signing key, so it cannot verify the
// signature. It can still read the "exp" claim: an expired token would be
// rejected by the server anyway, and failing locally gives the user the same
// "Authentication required." message without a round trip. Signature
// verification remains the server's job.
package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
)

// TokenSource holds the current bearer token. It implements
// oauth2.TokenSource so it can drive an oauth2.Transport.
//
// Safe for concurrent use: the local API may set the token while a sync is
// running.
type TokenSource struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

// NewTokenSource returns a source holding token, which may be empty.
func NewTokenSource(token string) *TokenSource {
	return &TokenSource{
		token: strings.TrimSpace(token),
		now:   time.Now,
	}
}

// Set replaces the token. A "Bearer " prefix is stripped.
func (s *TokenSource) Set(token string) {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear forgets the token; later calls fail with apperror.ErrUnauthenticated.
func (s *TokenSource) Clear() {
	s.Set("")
}

// Present reports whether a token is held, without checking expiry.
func (s *TokenSource) Present() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the bearer token or apperror.Unauthenticated when there is
// none or when it is a JWT whose exp claim has passed. Opaque (non-JWT)
// tokens are passed through unchanged.
func (s *TokenSource) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	raw := s.token
	s.mu.RUnlock()

	if raw == "" {
		return nil, apperror.Unauthenticated()
	}

	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}

	if strings.Count(raw, ".") != 2 {
		return tok, nil
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		// Not a JWT after all; let the server decide.
		return tok, nil
	}
	if claims.ExpiresAt != nil {
		if !claims.ExpiresAt.After(s.now()) {
			return nil, apperror.Unauthenticated()
		}
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok, nil
}
