package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestEntityErrorKinds(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("item", "id", 3)))
	assert.True(t, IsConflict(Duplicate("user", "email", "a@b.c")))
	assert.True(t, IsInvalidInput(Invalid("item", "bad")))
	assert.True(t, IsUnauthorized(Unauthorized("rating", "not yours")))

	assert.Equal(t, "item with id '3': not found", NotFound("item", "id", 3).Error())
	assert.Equal(t, "bad", Invalid("item", "bad").Error())
}

func TestPersistenceKeepsKind(t *testing.T) {
	cause := errors.New("connection reset")
	plain := Persistence("item", cause)
	assert.True(t, errors.Is(plain, ErrPersistence))
	assert.True(t, errors.Is(plain, cause))
	assert.False(t, IsConflict(plain))

	raced := Persistence("rating", fmt.Errorf("%w: duplicate key", ErrConflict))
	assert.True(t, IsConflict(raced))
	assert.False(t, errors.Is(raced, ErrPersistence))

	gone := Persistence("item", fmt.Errorf("%w: parent", ErrNotFound))
	assert.True(t, IsNotFound(gone))
}

func TestMapPgError(t *testing.T) {
	assert.NoError(t, MapPgError(nil))
	assert.True(t, IsNotFound(MapPgError(sql.ErrNoRows)))

	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrConflict},
		{"23503", ErrNotFound},
		{"23514", ErrInvalidInput},
		{"22P02", ErrInvalidInput},
	}
	for _, tt := range tests {
		pgErr := &pgconn.PgError{Code: tt.code}
		mapped := MapPgError(fmt.Errorf("exec: %w", pgErr))
		assert.True(t, errors.Is(mapped, tt.want), "code %s", tt.code)
		assert.True(t, errors.Is(mapped, pgErr), "original error stays in the chain")
	}

	other := errors.New("boom")
	assert.Same(t, other, MapPgError(other))
}
