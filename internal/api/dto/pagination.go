package dto

import (
	"fmt"
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is a validated page request.
type Pagination struct {
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
}

// ParsePagination reads page and limit query values. Empty values take the
// defaults and limit is capped at MaxLimit. Pages whose offset would not fit
// a Postgres bigint are rejected.
func ParsePagination(page, limit string) (Pagination, error) {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if page != "" {
		v, err := strconv.ParseUint(page, 10, 64)
		if err != nil || v == 0 {
			return Pagination{}, fmt.Errorf("invalid page: %s", page)
		}
		p.Page = v
	}
	if limit != "" {
		v, err := strconv.ParseUint(limit, 10, 64)
		if err != nil || v == 0 {
			return Pagination{}, fmt.Errorf("invalid limit: %s", limit)
		}
		p.Limit = min(v, MaxLimit)
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return Pagination{}, fmt.Errorf("invalid page: %s", page)
	}
	return p, nil
}

// Offset returns (page-1)*limit, saturating instead of overflowing.
func (p Pagination) Offset() uint64 {
	if p.Page <= 1 {
		return 0
	}
	n := p.Page - 1
	if p.Limit != 0 && n > math.MaxUint64/p.Limit {
		return math.MaxUint64
	}
	return n * p.Limit
}
