package database

import (
	"context"
	"dallasdresses_server/structs"
	"fmt"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps page and page size into their allowed ranges
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

// NewPagination computes the page window metadata for a total row count
func NewPagination(page, pageSize, total int) structs.Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return structs.Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Paginate applies pagination to a query builder and returns results with metadata
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], page, pageSize int) (*structs.Page[T], error) {
	page, pageSize = NormalizePage(page, pageSize)

	// Get total count
	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	// Calculate offset
	offset := (page - 1) * pageSize

	// Get paginated data
	data, err := q.Clone().Limit(pageSize).Offset(offset).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	return &structs.Page[T]{
		Data:       data,
		Pagination: NewPagination(page, pageSize, total),
	}, nil
}

// RawQuery executes a raw SQL query and scans every row into T. It joins the
// transaction carried by ctx.
func RawQuery[T any](ctx context.Context, db *DB, query string, args ...any) ([]T, error) {
	start := time.Now()
	var data []T

	err := WithRetry(ctx, func() error {
		data = nil
		return db.Conn(ctx).NewRaw(query, args...).Scan(ctx, &data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute raw query: %w (took %v)", err, time.Since(start))
	}
	if data == nil {
		data = []T{}
	}
	return data, nil
}

// RawExec executes a raw SQL command (INSERT, UPDATE, DELETE) without returning data
func RawExec(ctx context.Context, db *DB, query string, args ...any) (int, error) {
	start := time.Now()

	res, err := db.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute raw command: %w (took %v)", err, time.Since(start))
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db *DB, column string, id any) (*T, error) {
	return Query[T](db).Where(column, id).First(ctx)
}

// Create is a helper to insert a single record
func Create[T any](ctx context.Context, db *DB, data *T) (*T, error) {
	return Query[T](db).Insert(ctx, data)
}

// UpdateByID is a helper to update a record by ID
func UpdateByID[T any](ctx context.Context, db *DB, column string, id any, data any) (int, error) {
	return Query[T](db).Where(column, id).Update(ctx, data)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](ctx context.Context, db *DB, column string, id any) (int, error) {
	return Query[T](db).Where(column, id).Delete(ctx)
}
