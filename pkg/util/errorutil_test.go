package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor_EveryKindIsMapped(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 8)

	for _, k := range kinds {
		status, ok := StatusFor(k)
		assert.True(t, ok, "kind %s has no status mapping", k)
		assert.NotZero(t, status, "kind %s", k)
		assert.NotContains(t, k.String(), "KIND(", "kind %d has no name", int(k))
	}

	_, ok := StatusFor(kindEnd)
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	dbErr := errors.New("connection refused on 10.0.0.5")

	tests := []struct {
		name        string
		err         error
		policy      Policy
		wantStatus  int
		wantMessage string
	}{
		{"validation passes detail", NewValidation("title: too long"), Policy{}, http.StatusBadRequest, "title: too long"},
		{"bad request passes detail", NewBadRequest("invalid id: x"), Policy{}, http.StatusBadRequest, "invalid id: x"},
		{"authentication", NewAuthentication("missing token"), Policy{}, http.StatusUnauthorized, "missing token"},
		{"authorization", NewAuthorization("forbidden"), Policy{}, http.StatusForbidden, "forbidden"},
		{"not found", NewNotFound("task not found"), Policy{}, http.StatusNotFound, "task not found"},
		{"database generic", NewDatabase(dbErr), Policy{}, http.StatusInternalServerError, internalMessage},
		{"database echoed", NewDatabase(dbErr), Policy{EchoDatabase: true}, http.StatusInternalServerError, "DATABASE: database error: connection refused on 10.0.0.5"},
		{"serialization generic", NewSerialization(errors.New("unexpected EOF")), Policy{}, http.StatusBadRequest, serializationMessage},
		{"internal hides detail", NewInternal(errors.New("nil map")), Policy{EchoDatabase: true}, http.StatusInternalServerError, internalMessage},
		{"transport status kept", NewTransport(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), Policy{}, http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"server status never overrides", &AppError{Kind: KindBadRequest, Message: "m", Status: http.StatusBadGateway}, Policy{}, http.StatusBadRequest, "m"},
		{"status ignored on server kinds", &AppError{Kind: KindInternal, Status: http.StatusTeapot}, Policy{}, http.StatusInternalServerError, internalMessage},
		{"unknown kind", &AppError{Kind: Kind(99), Message: "??"}, Policy{}, http.StatusInternalServerError, internalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			status, msg := Resolve(appErr, tt.policy)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, msg)
		})
	}
}

func TestToAppError(t *testing.T) {
	var syntaxErr error
	{
		var v map[string]any
		syntaxErr = json.Unmarshal([]byte("{"), &v)
		require.Error(t, syntaxErr)
	}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"wrapped app error", fmt.Errorf("load: %w", NewNotFound("x")), KindNotFound},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), KindNotFound},
		{"pg error", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, KindDatabase},
		{"json syntax", syntaxErr, KindSerialization},
		{"deadline", context.DeadlineExceeded, KindInternal},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.True(t, IsKind(tt.err, tt.want))
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
