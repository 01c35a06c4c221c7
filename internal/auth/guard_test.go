package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/task-service/pkg/util"
)

type spyVerifier struct {
	calls  int
	claims Claims
	err    error
}

func (s *spyVerifier) Verify(string) (Claims, error) {
	s.calls++
	return s.claims, s.err
}

func TestGuard_RejectsMalformedHeadersWithoutVerifying(t *testing.T) {
	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"bearer abc",
		"BEARER abc",
		"Basic dXNlcjpwYXNz",
		"Token abc",
		" Bearer abc",
		"Bearerabc",
	}

	for _, header := range headers {
		t.Run(header, func(t *testing.T) {
			spy := &spyVerifier{}
			guard := NewGuard(spy)

			principal, err := guard.Authenticate(header)
			require.Error(t, err)
			assert.Nil(t, principal)
			assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
			assert.Zero(t, spy.calls)
		})
	}
}

func TestGuard_MissingHeaderMessage(t *testing.T) {
	guard := NewGuard(&spyVerifier{})

	_, err := guard.Authenticate("")
	require.Error(t, err)
	assert.Equal(t, "missing token", apperrors.ToAppError(err).Message)
}

func TestGuard_VerifierFailureIsAuthentication(t *testing.T) {
	spy := &spyVerifier{err: apperrors.NewInternal(nil)}
	guard := NewGuard(spy)

	_, err := guard.Authenticate("Bearer abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
	assert.Equal(t, 1, spy.calls)
}

func TestGuard_IssuedTokenResolvesPrincipal(t *testing.T) {
	codec, _ := newTestCodec("secret")
	guard := NewGuard(codec)

	token, claims, err := codec.IssueWithTTL("user-1", 3600*time.Second)
	require.NoError(t, err)

	principal, err := guard.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, claims, principal.Claims)
}

func TestGuard_ExpiredTokenIsRejected(t *testing.T) {
	codec, clk := newTestCodec("secret")
	guard := NewGuard(codec)

	token, claims, err := codec.Issue("user-1")
	require.NoError(t, err)

	clk.Set(time.Unix(claims.ExpiresAt, 0).Add(time.Second))

	principal, err := guard.Authenticate("Bearer " + token)
	require.Error(t, err)
	assert.Nil(t, principal)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.Error(t, ComparePassword(hash, "battery staple"))
}
