// Package pgstore implements the repositories on Postgres through bun. Every
// repository resolves its connection from the context, so calls made inside
// Store.Tx.RunInTx share one transaction.
package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"time"
)

// New builds the Postgres-backed store
func New(db *database.DB) *repository.Store {
	return &repository.Store{
		Tx:             &transactor{db: db},
		Health:         &transactor{db: db},
		Items:          &itemRepo{db: db},
		Categories:     &categoryRepo{db: db},
		ItemCategories: &itemCategoryRepo{db: db},
		Images:         &imageRepo{db: db},
		Variants:       &variantRepo{db: db},
		Ratings:        &ratingRepo{db: db},
		HelpfulVotes:   &helpfulVoteRepo{db: db},
		Users:          &userRepo{db: db},
		Addresses:      &addressRepo{db: db},
		Credentials:    &credentialRepo{db: db},
	}
}

type transactor struct {
	db *database.DB
}

func (t *transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.RunInTx(ctx, fn)
}

func (t *transactor) Ping(ctx context.Context) error {
	return t.db.Health(ctx)
}

// mapErr normalizes driver errors into lib error kinds
func mapErr(err error) error {
	return lib.MapPgError(err)
}

// paged runs a paginated listing and unpacks the page
func paged[T any](ctx context.Context, q *database.QueryBuilder[T], page, pageSize int) ([]T, int, error) {
	result, err := database.Paginate(ctx, q, page, pageSize)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return result.Data, result.Pagination.Total, nil
}

func now() time.Time {
	return time.Now().UTC()
}
