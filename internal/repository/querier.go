package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// ErrNoDatabase is returned by every query when no pool is configured.
var ErrNoDatabase = errors.New("database not configured")

// ErrDuplicate signals a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

// Querier is the subset of *pgxpool.Pool the repositories need.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewQuerier returns pool, or a querier failing with ErrNoDatabase when pool is nil.
func NewQuerier(pool *pgxpool.Pool) Querier {
	if pool == nil {
		return unavailable{}
	}
	return pool
}

type unavailable struct{}

func (unavailable) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrNoDatabase
}

func (unavailable) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrNoDatabase
}

func (unavailable) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: ErrNoDatabase}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}

// wrapErr classifies driver errors. pgx.ErrNoRows passes through untouched
// so callers can still test for it.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return err
	case errors.Is(err, ErrNoDatabase):
		return apperrors.NewInternal(fmt.Errorf("%s: %w", op, err))
	default:
		return apperrors.NewDatabase(fmt.Errorf("%s: %w", op, err))
	}
}
