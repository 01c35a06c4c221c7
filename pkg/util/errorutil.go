package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the closed set of failure categories the API can report.
type Kind int

const (
	KindDatabase Kind = iota + 1
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindInternal
	KindBadRequest
	KindSerialization

	// kindEnd must stay last.
	kindEnd
)

const (
	internalMessage      = "an internal error occurred"
	serializationMessage = "invalid data format"
)

// Kinds lists every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(kindEnd)-1)
	for k := KindDatabase; k < kindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "DATABASE"
	case KindValidation:
		return "VALIDATION"
	case KindAuthentication:
		return "AUTHENTICATION"
	case KindAuthorization:
		return "AUTHORIZATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInternal:
		return "INTERNAL"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindSerialization:
		return "SERIALIZATION"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

// StatusFor returns the HTTP status for k. The boolean is false for kinds
// without a mapping.
func StatusFor(k Kind) (int, bool) {
	switch k {
	case KindValidation, KindBadRequest, KindSerialization:
		return http.StatusBadRequest, true
	case KindAuthentication:
		return http.StatusUnauthorized, true
	case KindAuthorization:
		return http.StatusForbidden, true
	case KindNotFound:
		return http.StatusNotFound, true
	case KindDatabase, KindInternal:
		return http.StatusInternalServerError, true
	default:
		return 0, false
	}
}

// AppError standardizes application errors. Status, when set to a 4xx code,
// overrides the kind's status for client-side kinds.
type AppError struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Policy controls how much detail 5xx responses carry.
type Policy struct {
	// EchoDatabase exposes database error detail to callers. Never set in production.
	EchoDatabase bool
}

// Resolve maps e to the status code and the message shown to the caller.
func Resolve(e *AppError, policy Policy) (int, string) {
	status, ok := StatusFor(e.Kind)
	if !ok {
		return http.StatusInternalServerError, internalMessage
	}
	if status < http.StatusInternalServerError && e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError {
		status = e.Status
	}

	switch e.Kind {
	case KindDatabase:
		if policy.EchoDatabase {
			return status, e.Error()
		}
		return status, internalMessage
	case KindInternal:
		return status, internalMessage
	case KindSerialization:
		return status, serializationMessage
	default:
		return status, e.Message
	}
}

func NewValidation(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewBadRequest(message string) error {
	return &AppError{Kind: KindBadRequest, Message: message}
}

// NewTransport reports a malformed request rejected by the transport, such as
// an oversized body, keeping the transport's 4xx status.
func NewTransport(status int, message string) error {
	return &AppError{Kind: KindBadRequest, Message: message, Status: status}
}

func NewAuthentication(message string) error {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func NewAuthorization(message string) error {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NewNotFound(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewDatabase(err error) error {
	return &AppError{Kind: KindDatabase, Message: "database error", Err: err}
}

func NewInternal(err error) error {
	return &AppError{Kind: KindInternal, Message: internalMessage, Err: err}
}

func NewSerialization(err error) error {
	return &AppError{Kind: KindSerialization, Message: serializationMessage, Err: err}
}

// ToAppError converts generic errors to AppError. Anything unrecognised
// becomes KindInternal.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Kind: KindNotFound, Message: "resource not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &AppError{Kind: KindDatabase, Message: "database error", Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &AppError{Kind: KindSerialization, Message: serializationMessage, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Kind: KindInternal, Message: "request timed out", Err: err}
	}

	return &AppError{Kind: KindInternal, Message: internalMessage, Err: err}
}

// IsKind reports whether err normalizes to kind k.
func IsKind(err error, k Kind) bool {
	appErr := ToAppError(err)
	return appErr != nil && appErr.Kind == k
}
