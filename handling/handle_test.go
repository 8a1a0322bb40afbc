package handling

import (
	"context"
	"dallasdresses_server/config"
	"dallasdresses_server/lib"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStatus(t *testing.T) {
	logger := config.NewLogger(false)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &lib.ValidationError{Errors: []lib.FieldError{{Field: "name", Message: "is required"}}}, http.StatusBadRequest},
		{"empty body", lib.ErrEmptyBody, http.StatusBadRequest},
		{"invalid input", lib.Invalid("item", "bad price"), http.StatusBadRequest},
		{"not found", lib.NotFound("item", "id", 1), http.StatusNotFound},
		{"conflict", lib.Duplicate("user", "email", "a@b.c"), http.StatusConflict},
		{"racing insert", lib.Persistence("rating", fmt.Errorf("%w: unique", lib.ErrConflict)), http.StatusConflict},
		{"not the owner", lib.Unauthorized("address", "not yours"), http.StatusForbidden},
		{"bad credentials", lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", lib.ErrExpiredToken, http.StatusUnauthorized},
		{"storage failure", lib.Persistence("item", errors.New("connection refused")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_ = WriteError(tt.err, "test", logger, w)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseID(t *testing.T) {
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/items/12", nil), "id", "12")
	id, err := ParseID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/items/x", nil), "id", raw)
		_, err := ParseID(r, "id")
		assert.True(t, lib.IsInvalidInput(err), "raw %q", raw)
	}
}

func TestParseItemListOptions(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/items?page=2&page_size=5&search=+silk+&category=Evening-Gowns&min_price=10.5&max_price=99&parent_id=4&only_parents=true&sort_by=price&sort_direction=asc&created_after=2024-01-02T03:04:05Z", nil)

	opts, err := ParseItemListOptions(r)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 5, opts.PageSize)
	assert.Equal(t, "silk", opts.SearchTerm)
	assert.Equal(t, "evening-gowns", opts.CategorySlug)
	assert.Equal(t, "10.5", opts.MinPrice.String())
	assert.Equal(t, "99", opts.MaxPrice.String())
	require.NotNil(t, opts.ParentID)
	assert.Equal(t, int64(4), *opts.ParentID)
	assert.True(t, opts.OnlyParents)
	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "ASC", opts.SortDirection)
	require.NotNil(t, opts.CreatedAfter)
	assert.Equal(t, 2024, opts.CreatedAfter.Year())

	bad := []string{
		"/items?page=two",
		"/items?min_price=cheap",
		"/items?parent_id=-1",
		"/items?only_parents=maybe",
		"/items?created_before=yesterday",
	}
	for _, target := range bad {
		_, err := ParseItemListOptions(httptest.NewRequest(http.MethodGet, target, nil))
		assert.True(t, lib.IsInvalidInput(err), target)
	}

	empty, err := ParseItemListOptions(httptest.NewRequest(http.MethodGet, "/items", nil))
	require.NoError(t, err)
	assert.Zero(t, empty.Page)
}
