package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "user-auth-service/pkg/errors"
)

// DefaultTokenLifetime is how long an issued token stays valid.
const DefaultTokenLifetime = time.Hour

// Claims is the payload of a bearer token.
type Claims struct {
	ID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens with a process-wide
// secret. There is no revocation list; expiry is the only invalidation.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the wall clock used for issue and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service. A non-positive lifetime falls back
// to DefaultTokenLifetime.
func NewTokenService(secret string, lifetime time.Duration, opts ...TokenOption) *TokenService {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	s := &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lifetime returns the configured token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token carrying userID that expires one lifetime from now.
func (s *TokenService) Issue(userID int64) (string, error) {
	issuedAt := s.now()
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token. It returns an auth error
// with ReasonTokenExpired when the token is past its expiry and
// ReasonTokenInvalid for anything else wrong with it.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthError(apperrors.ReasonTokenExpired, "")
		}
		return nil, apperrors.NewAuthError(apperrors.ReasonTokenInvalid, "")
	}
	if !parsed.Valid || claims.ID <= 0 {
		return nil, apperrors.NewAuthError(apperrors.ReasonTokenInvalid, "")
	}

	return claims, nil
}
