package lib

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Error kinds. Every error leaving the service layer wraps exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence failure")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// EntityError describes a failed operation on a single entity. Kind is one of
// the error kinds above, Err the optional underlying cause.
type EntityError struct {
	Kind    error
	Entity  string
	Field   string
	Value   any
	Message string
	Err     error
}

func (e *EntityError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s with %s '%v': %s", e.Entity, e.Field, e.Value, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Entity, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Entity, e.Kind)
	}
}

func (e *EntityError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotFound(entity, field string, value any) *EntityError {
	return &EntityError{Kind: ErrNotFound, Entity: entity, Field: field, Value: value}
}

func Duplicate(entity, field string, value any) *EntityError {
	return &EntityError{Kind: ErrConflict, Entity: entity, Field: field, Value: value}
}

func Invalid(entity, message string) *EntityError {
	return &EntityError{Kind: ErrInvalidInput, Entity: entity, Message: message}
}

func Unauthorized(entity, message string) *EntityError {
	return &EntityError{Kind: ErrUnauthorized, Entity: entity, Message: message}
}

// Persistence wraps a storage failure. Conflicts and missing rows reported by
// the database keep their own kind so a racing unique insert still surfaces
// as a duplicate.
func Persistence(entity string, err error) *EntityError {
	kind := ErrPersistence
	switch {
	case errors.Is(err, ErrConflict):
		kind = ErrConflict
	case errors.Is(err, ErrNotFound):
		kind = ErrNotFound
	}
	return &EntityError{Kind: kind, Entity: entity, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// MapPgError translates Postgres failures from either driver into the error
// kinds above, keeping the original error in the chain.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	code := ""
	var pgxErr *pgconn.PgError
	var pgErr pgdriver.Error
	switch {
	case errors.As(err, &pgxErr):
		code = pgxErr.Code
	case errors.As(err, &pgErr):
		code = pgErr.Field('C') // SQLSTATE
	}

	switch code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case "23503", "P0002": // foreign_key_violation, no_data_found
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case "23514", "22P02", "22003": // check_violation, invalid_text_representation, numeric_value_out_of_range
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
