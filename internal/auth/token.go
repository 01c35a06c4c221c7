package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/task-service/internal/clock"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const invalidTokenMessage = "invalid or expired token"

// ErrInvalidTTL is returned when a token would expire at or before issuance.
var ErrInvalidTTL = errors.New("token ttl must be positive")

// Claims is the signed payload identifying a subject and its validity window.
type Claims struct {
	Subject   string
	IssuedAt  int64
	ExpiresAt int64
}

// TokenCodec issues and verifies HS256 signed tokens with one shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenCodec builds a codec. ttl is the default lifetime used by Issue.
func NewTokenCodec(secret string, ttl time.Duration, clk clock.Clock) *TokenCodec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, clock: clk}
}

// TTL returns the default token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs a token for subject with the default lifetime.
func (tc *TokenCodec) Issue(subject string) (string, Claims, error) {
	return tc.IssueWithTTL(subject, tc.ttl)
}

// IssueWithTTL signs a token for subject valid for ttl from now.
func (tc *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, Claims, error) {
	if ttl < time.Second {
		return "", Claims{}, apperrors.NewInternal(ErrInvalidTTL)
	}

	issuedAt := tc.clock.Now().Unix()
	expiresAt := issuedAt + int64(ttl/time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Unix(issuedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
	})
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", Claims{}, apperrors.NewInternal(fmt.Errorf("sign token: %w", err))
	}

	return signed, Claims{Subject: subject, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry. Every failure yields the same
// authentication error so callers cannot tell the causes apart.
func (tc *TokenCodec) Verify(tokenStr string) (Claims, error) {
	var registered jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tokenStr, &registered, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tc.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, apperrors.NewAuthentication(invalidTokenMessage)
	}

	if registered.Subject == "" || registered.IssuedAt == nil {
		return Claims{}, apperrors.NewAuthentication(invalidTokenMessage)
	}

	claims := Claims{
		Subject:   registered.Subject,
		IssuedAt:  registered.IssuedAt.Unix(),
		ExpiresAt: registered.ExpiresAt.Unix(),
	}
	if claims.ExpiresAt <= claims.IssuedAt || tc.clock.Now().Unix() >= claims.ExpiresAt {
		return Claims{}, apperrors.NewAuthentication(invalidTokenMessage)
	}
	return claims, nil
}
