package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	shareIssuer   = "readwell"
	shareAudience = "assessment-report"
)

// ErrInvalidShareToken is returned for tokens that are malformed, tampered
// with, expired or issued for something else.
var ErrInvalidShareToken = errors.New("invalid share token")

// ShareTokens issues and verifies signed, expiring links to a completed
// assessment report.
type ShareTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewShareTokens creates a token issuer whose signing key is derived from secret
func NewShareTokens(secret string, ttl time.Duration) (*ShareTokens, error) {
	key, err := DeriveKey(secret, "share-token")
	if err != nil {
		return nil, err
	}
	return &ShareTokens{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a token granting read access to one assessment report
func (s *ShareTokens) Issue(assessmentID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    shareIssuer,
		Subject:   assessmentID,
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify returns the assessment ID a token was issued for
func (s *ShareTokens) Verify(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidShareToken)
	}
	return claims.Subject, nil
}
