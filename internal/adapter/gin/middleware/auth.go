package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/security"
)

// TokenQueryParam is the fallback location for a token.
const TokenQueryParam = "token"

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Authenticator resolves the caller identity from a request. It only checks
// the token; it never reads storage, so a deleted user keeps passing until
// the token expires.
type Authenticator struct {
	verifier TokenVerifier
	log      *zap.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(v TokenVerifier, log *zap.Logger) *Authenticator {
	return &Authenticator{verifier: v, log: log}
}

// Authenticate reads "Authorization: Bearer <token>" or, failing that, the
// token query parameter. A well-formed bearer header wins over the query.
func (a *Authenticator) Authenticate(r *http.Request) (Identity, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get(TokenQueryParam))
	}
	if token == "" {
		return Identity{}, apperrors.NewAuthError(apperrors.ReasonTokenMissing, "")
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			err = apperrors.NewAuthError(apperrors.ReasonTokenInvalid, "")
		}
		a.log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
		return Identity{}, err
	}

	return Identity{UserID: claims.ID}, nil
}

// bearerToken returns the token of a well-formed Bearer header, or "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
