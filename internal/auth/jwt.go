// Package auth provides JWT session tokens and password hashing for the
// marketplace API.
//
// SESSION FLOW:
//  1. User registers or logs in with email + password
//  2. Server verifies the password against the stored bcrypt hash
//  3. Server issues a JWT and stores it in an HttpOnly "token" cookie
//  4. On later requests, middleware reads the cookie, validates the JWT,
//     and puts the userID in the request context
//  5. Logout clears the cookie; the token simply ages out
//
// WHY JWT?
// The token IS the session. Nothing is cached server-side: every request
// that needs the account re-reads it from the store, so a profile edit is
// visible on the very next request. The signed token carries only the user
// ID and an expiry, and the HMAC signature means nobody can forge one
// without the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is how long an issued token stays valid. A day matches the
// "stay logged in while browsing" expectation of a storefront; after that
// the user signs in again.
const sessionTTL = 24 * time.Hour

// TokenService signs and verifies session tokens with a shared HMAC secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Generate a real one with: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user ID travels in "sub".
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, sessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Tests use this to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "safestate",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the userID from
// the "sub" claim.
//
// The library checks the signature, the expiry, and the issuer. Pinning
// the method list to HS256 closes the algorithm-confusion hole where a
// token signed with "none" might otherwise slip through.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("safestate"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
