// Package auth signs and verifies the compact, self-expiring tokens that
// carry account claims. Verification is pure: no store is consulted.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Claims is the signed payload: the account id as subject plus the email.
// Expiry, issue time and a random token id are filled in by Sign.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewClaims returns claims for the given account.
func NewClaims(accountID, email string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: accountID},
		Email:            email,
	}
}

// AccountID is the subject the token was issued for.
func (c *Claims) AccountID() string {
	return c.Subject
}

// Signer creates and verifies tokens. Access and refresh tokens must be
// signed with different secrets so one cannot be replayed as the other.
type Signer interface {
	Sign(claims Claims, secret []byte, ttl time.Duration) (string, error)
	Verify(token string, secret []byte) (*Claims, error)
}

// JWTSigner implements Signer with HS256 JWTs.
type JWTSigner struct {
	now func() time.Time
}

// NewJWTSigner returns a signer using the wall clock.
func NewJWTSigner() *JWTSigner {
	return &JWTSigner{now: time.Now}
}

// NewJWTSignerWithClock returns a signer reading time from now.
func NewJWTSignerWithClock(now func() time.Time) *JWTSigner {
	return &JWTSigner{now: now}
}

// Sign stamps claims with issue time, absolute expiry now+ttl and a fresh
// token id, then signs them with secret.
func (s *JWTSigner) Sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature against secret and the embedded expiry.
// It returns common.ErrTokenExpired for a correctly signed but expired
// token and common.ErrInvalidSignature for anything else that fails.
func (s *JWTSigner) Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidSignature, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidSignature
	}

	return claims, nil
}
