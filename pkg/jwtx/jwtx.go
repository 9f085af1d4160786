// Package jwtx mints and verifies the EdDSA-signed bearer tokens that bind a
// request to a user session. Keys are ephemeral: restarting the service
// invalidates outstanding tokens, which is acceptable because sessions are
// short-lived and re-minted at login.
package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is how long a minted access token stays valid.
const DefaultAccessTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrWrongIssuer  = errors.New("jwtx: wrong issuer")
)

// Claims carried by broker access tokens. SessionID ties the token to a
// revocable session row so deletion can invalidate it server-side.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Keypair holds an Ed25519 signing key and its public counterpart.
type Keypair struct {
	Public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// NewKeypair generates a fresh Ed25519 keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return &Keypair{Public: pub, private: priv}, nil
}

// Signer mints access tokens for a fixed issuer.
type Signer struct {
	Keys   *Keypair
	Issuer string
	TTL    time.Duration
}

// Mint returns a signed token for the given subject and session.
func (s *Signer) Mint(userID, sessionID string) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(s.Keys.private)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verifier validates raw tokens against the issuing keypair.
type Verifier struct {
	Public ed25519.PublicKey
	Issuer string
}

// Verify parses and validates a raw token, returning its claims.
func (v *Verifier) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.Public, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if v.Issuer != "" && claims.Issuer != v.Issuer {
		return Claims{}, ErrWrongIssuer
	}
	return claims, nil
}
