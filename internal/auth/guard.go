package auth

import (
	"strings"

	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const bearerPrefix = "Bearer "

// Principal represents the authenticated caller for one request.
type Principal struct {
	UserID string
	Claims Claims
}

// TokenVerifier verifies a raw token string.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// Guard resolves principals from Authorization header values.
type Guard struct {
	tokens TokenVerifier
}

// NewGuard constructs a guard.
func NewGuard(tokens TokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate turns the raw Authorization header value into a principal.
// An empty header means the header was absent.
func (g *Guard) Authenticate(header string) (*Principal, error) {
	if header == "" {
		return nil, apperrors.NewAuthentication("missing token")
	}

	if !strings.HasPrefix(header, bearerPrefix) || len(header) == len(bearerPrefix) {
		return nil, apperrors.NewAuthentication("invalid token format")
	}

	claims, err := g.tokens.Verify(header[len(bearerPrefix):])
	if err != nil {
		return nil, apperrors.NewAuthentication(invalidTokenMessage)
	}

	return &Principal{UserID: claims.Subject, Claims: claims}, nil
}
