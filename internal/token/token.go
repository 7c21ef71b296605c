// Package token issues and verifies the signed bearer tokens that carry a
// user identity between login and subsequent API requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification errors. Both reject the token; callers may log them
// differently but must treat them the same way.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims embeds the registered JWT claims plus the user identity.
// The user_id / exp wire format is stable for external consumers.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service mints and verifies HS256 tokens with a fixed TTL.
// The secret is read-only after construction.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token Service signing with secret, valid for ttl.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a signed token embedding userID, expiring after the TTL.
func (s *Service) Issue(userID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
		UserID: userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and expiry and returns the embedded user ID.
// Expired tokens yield ErrExpired; anything else wrong with the token
// (bad signature, malformed payload, wrong algorithm) yields ErrInvalid.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}
