package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination represents pagination parameters
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage clamps page and page size to sane bounds
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// NewPagination computes page metadata for a total row count
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// Paginate runs the query for one page and returns results with metadata
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], page, pageSize int) (*PaginationResult[T], error) {
	start := time.Now()
	page, pageSize = NormalizePage(page, pageSize)
	q.Limit(pageSize).Offset((page - 1) * pageSize)

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	var total int
	err := WithRetry(ctx, func() error {
		data = nil
		var err error
		total, err = q.buildSelect(&data).ScanAndCount(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w (took %v)", err, time.Since(start))
	}
	if data == nil {
		data = []T{}
	}

	return &PaginationResult[T]{
		Data:       data,
		Pagination: NewPagination(page, pageSize, total),
	}, nil
}

// Transaction runs fn inside a transaction, rolling back when it returns an error or panics
func Transaction(ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}
	return db.RunInTx(ctx, nil, fn)
}
