package handling

import (
	"dallasdresses_server/lib"
	"dallasdresses_server/services"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ParseItemListOptions parses HTTP query parameters into ItemListOptions
func ParseItemListOptions(r *http.Request) (*services.ItemListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ItemListOptions{}, nil
	}

	opts := &services.ItemListOptions{}
	var err error

	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}

	if searchTerm := query.Get("search"); searchTerm != "" {
		opts.SearchTerm = strings.TrimSpace(searchTerm)
	}

	if category := query.Get("category"); category != "" {
		opts.CategorySlug = lib.SanitizeString(category, true, true)
	}

	// Parse price filters
	if opts.MinPrice, err = parseDecimal(query.Get("min_price"), "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseDecimal(query.Get("max_price"), "max_price"); err != nil {
		return nil, err
	}

	if parentID := query.Get("parent_id"); parentID != "" {
		id, err := strconv.ParseInt(parentID, 10, 64)
		if err != nil || id <= 0 {
			return nil, lib.Invalid("item", "parent_id must be a positive integer")
		}
		opts.ParentID = &id
	}

	if onlyParents := query.Get("only_parents"); onlyParents != "" {
		if opts.OnlyParents, err = strconv.ParseBool(onlyParents); err != nil {
			return nil, lib.Invalid("item", "only_parents must be true or false")
		}
	}

	// Parse date filters
	if createdAfter := query.Get("created_after"); createdAfter != "" {
		t, err := time.Parse(time.RFC3339, createdAfter)
		if err != nil {
			return nil, lib.Invalid("item", "created_after must be an RFC3339 timestamp")
		}
		opts.CreatedAfter = &t
	}

	if createdBefore := query.Get("created_before"); createdBefore != "" {
		t, err := time.Parse(time.RFC3339, createdBefore)
		if err != nil {
			return nil, lib.Invalid("item", "created_before must be an RFC3339 timestamp")
		}
		opts.CreatedBefore = &t
	}

	// Parse sorting parameters
	if sortBy := query.Get("sort_by"); sortBy != "" {
		opts.SortBy = lib.SanitizeString(sortBy, true, true)
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	return opts, nil
}

// ParsePage reads the page and page_size query parameters. Missing values
// come back as zero and are defaulted by the services.
func ParsePage(r *http.Request) (page, pageSize int, err error) {
	query := r.URL.Query()
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, lib.Invalid("page", "page must be an integer")
		}
	}
	if v := query.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, lib.Invalid("page", "page_size must be an integer")
		}
	}
	return page, pageSize, nil
}

// ParseID reads a positive integer route parameter
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, lib.Invalid(name, fmt.Sprintf("%s must be a positive integer, got %q", name, raw))
	}
	return id, nil
}

func parseDecimal(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, lib.Invalid("item", fmt.Sprintf("%s must be a decimal number", name))
	}
	return &d, nil
}
