package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// buildSelect builds a bun select over model with every clause of the builder
func (q *QueryBuilder[T]) buildSelect(ctx context.Context, model any) *bun.SelectQuery {
	query := q.db.Conn(ctx).NewSelect().Model(model)

	if q.distinct {
		query = query.Distinct()
	}
	for _, join := range q.joins {
		query = query.Join(join.toSQL())
	}

	query = applyWheres(query, q.wheres, q.whereGroups)

	for _, order := range q.orders {
		query = query.OrderExpr(order.Column + " " + order.Direction)
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}
	return query
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T
	err := WithRetry(ctx, func() error {
		data = nil // Reset on retry
		return q.buildSelect(ctx, &data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First executes the query and returns the first matching record, or nil when
// nothing matches
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T
	err := WithRetry(ctx, func() error {
		return q.buildSelect(ctx, &data).Limit(1).Scan(ctx)
	})
	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int
	err := WithRetry(ctx, func() error {
		// ordering and paging do not change a count
		cq := q.Clone()
		cq.orders, cq.limitVal, cq.offsetVal = nil, nil, nil

		var err error
		count, err = cq.buildSelect(ctx, (*T)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := WithRetry(ctx, func() error {
		var err error
		exists, err = q.buildSelect(ctx, (*T)(nil)).Exists(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to execute exists query: %w", err)
	}
	return exists, nil
}

// Insert inserts a new record and scans generated columns back into it
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()
	err := WithRetry(ctx, func() error {
		query := q.db.Conn(ctx).NewInsert().Model(data).Returning("*")
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records with automatic retry
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	err := WithRetry(ctx, func() error {
		query := q.db.Conn(ctx).NewInsert().Model(&data).Returning("*")
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update updates records matching the query. data is either a column map or
// a *T whose every column is written.
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	start := time.Now()
	var rowsAffected int64
	err := WithRetry(ctx, func() error {
		var query *bun.UpdateQuery

		switch v := data.(type) {
		case map[string]any:
			query = q.db.Conn(ctx).NewUpdate().Model((*T)(nil))
			for key, value := range v {
				query = query.Set("? = ?", bun.Ident(key), value)
			}
		case *T:
			query = q.db.Conn(ctx).NewUpdate().Model(v).ExcludeColumn("created_at")
		default:
			return fmt.Errorf("unsupported data type for update: %T", data)
		}

		query = applyWheres(query, q.wheres, q.whereGroups)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// Delete deletes records matching the query with automatic retry
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64
	err := WithRetry(ctx, func() error {
		query := q.db.Conn(ctx).NewDelete().Model((*T)(nil))
		query = applyWheres(query, q.wheres, q.whereGroups)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}
