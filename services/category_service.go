package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"regexp"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a category name into its URL-safe slug. The result
// only depends on the input, so generating it twice gives the same slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CategoryService resolves category slugs for items and manages the
// categories themselves
type CategoryService struct {
	logger *gecho.Logger
	store  *repository.Store
}

func NewCategoryService(logger *gecho.Logger, store *repository.Store) *CategoryService {
	return &CategoryService{logger: logger, store: store}
}

func toCategoryDto(c *tables.Category) structs.CategoryDto {
	return structs.CategoryDto{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toCategoryDtos(rows []tables.Category) []structs.CategoryDto {
	out := make([]structs.CategoryDto, len(rows))
	for i := range rows {
		out[i] = toCategoryDto(&rows[i])
	}
	return out
}

func (cs *CategoryService) GetAll(ctx context.Context) ([]structs.CategoryDto, error) {
	rows, err := cs.store.Categories.FindAll(ctx)
	if err != nil {
		cs.logger.Error("Failed to fetch categories", gecho.Field("error", err))
		return nil, storeErr("category", err)
	}
	return toCategoryDtos(rows), nil
}

func (cs *CategoryService) GetByID(ctx context.Context, id int64) (*structs.CategoryDto, error) {
	category, err := cs.store.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("category", err)
	}
	if category == nil {
		return nil, lib.NotFound("category", "id", id)
	}
	dto := toCategoryDto(category)
	return &dto, nil
}

func (cs *CategoryService) GetBySlug(ctx context.Context, slug string) (*structs.CategoryDto, error) {
	category, err := cs.store.Categories.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, storeErr("category", err)
	}
	if category == nil {
		return nil, lib.NotFound("category", "slug", slug)
	}
	dto := toCategoryDto(category)
	return &dto, nil
}

// GetByName looks a category up by name, ignoring case
func (cs *CategoryService) GetByName(ctx context.Context, name string) (*structs.CategoryDto, error) {
	category, err := cs.store.Categories.FindByName(ctx, name)
	if err != nil {
		return nil, storeErr("category", err)
	}
	if category == nil {
		return nil, lib.NotFound("category", "name", name)
	}
	dto := toCategoryDto(category)
	return &dto, nil
}

// Create stores a new category. The slug is generated from the name when the
// request carries none.
func (cs *CategoryService) Create(ctx context.Context, req *structs.CategoryCreateRequest) (*structs.CategoryDto, error) {
	if req == nil {
		return nil, lib.Invalid("category", "request body is required")
	}

	var created *tables.Category
	err := cs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = cs.create(ctx, req)
		return err
	})
	if err != nil {
		cs.logger.Warn("Failed to create category", gecho.Field("name", req.Name), gecho.Field("error", err))
		return nil, err
	}

	cs.logger.Info("Category created", gecho.Field("id", created.ID), gecho.Field("slug", created.Slug))
	dto := toCategoryDto(created)
	return &dto, nil
}

func (cs *CategoryService) create(ctx context.Context, req *structs.CategoryCreateRequest) (*tables.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, lib.Invalid("category", "category name is required")
	}

	slug := GenerateSlug(req.Slug)
	if slug == "" {
		slug = GenerateSlug(name)
	}
	if slug == "" {
		return nil, lib.Invalid("category", "category name must contain letters or digits")
	}

	if err := cs.ensureUnique(ctx, 0, name, slug); err != nil {
		return nil, err
	}

	category := &tables.Category{Name: name, Slug: slug}
	if err := cs.store.Categories.Create(ctx, category); err != nil {
		return nil, storeErr("category", err)
	}
	return category, nil
}

// ensureUnique rejects a name (case-insensitive) or slug already held by a
// category other than selfID
func (cs *CategoryService) ensureUnique(ctx context.Context, selfID int64, name, slug string) error {
	byName, err := cs.store.Categories.FindByName(ctx, name)
	if err != nil {
		return storeErr("category", err)
	}
	if byName != nil && byName.ID != selfID {
		return lib.Duplicate("category", "name", name)
	}

	bySlug, err := cs.store.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return storeErr("category", err)
	}
	if bySlug != nil && bySlug.ID != selfID {
		return lib.Duplicate("category", "slug", slug)
	}
	return nil
}

func (cs *CategoryService) Update(ctx context.Context, id int64, req *structs.CategoryUpdateRequest) (*structs.CategoryDto, error) {
	if req == nil {
		return nil, lib.Invalid("category", "request body is required")
	}

	var category *tables.Category
	err := cs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		category, err = cs.store.Categories.FindByID(ctx, id)
		if err != nil {
			return storeErr("category", err)
		}
		if category == nil {
			return lib.NotFound("category", "id", id)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return lib.Invalid("category", "category name cannot be empty")
			}
			category.Name = name
		}
		if req.Slug != nil {
			slug := GenerateSlug(*req.Slug)
			if slug == "" {
				return lib.Invalid("category", "category slug cannot be empty")
			}
			category.Slug = slug
		}

		if err := cs.ensureUnique(ctx, category.ID, category.Name, category.Slug); err != nil {
			return err
		}
		return storeErr("category", cs.store.Categories.Update(ctx, category))
	})
	if err != nil {
		cs.logger.Warn("Failed to update category", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	cs.logger.Info("Category updated", gecho.Field("id", id))
	dto := toCategoryDto(category)
	return &dto, nil
}

// Delete removes a category. Items stay, only their link to it goes.
func (cs *CategoryService) Delete(ctx context.Context, id int64) error {
	category, err := cs.store.Categories.FindByID(ctx, id)
	if err != nil {
		return storeErr("category", err)
	}
	if category == nil {
		return lib.NotFound("category", "id", id)
	}
	return cs.delete(ctx, category)
}

func (cs *CategoryService) DeleteByName(ctx context.Context, name string) error {
	category, err := cs.store.Categories.FindByName(ctx, name)
	if err != nil {
		return storeErr("category", err)
	}
	if category == nil {
		return lib.NotFound("category", "name", name)
	}
	return cs.delete(ctx, category)
}

func (cs *CategoryService) delete(ctx context.Context, category *tables.Category) error {
	if err := cs.store.Categories.Delete(ctx, category.ID); err != nil {
		cs.logger.Error("Failed to delete category", gecho.Field("id", category.ID), gecho.Field("error", err))
		return storeErr("category", err)
	}
	cs.logger.Info("Category deleted", gecho.Field("id", category.ID), gecho.Field("slug", category.Slug))
	return nil
}

// normalizeSlugs trims, lowercases and de-duplicates slugs keeping their order
func normalizeSlugs(slugs []string) []string {
	out := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ResolveForItem maps the slugs of an item request onto stored categories.
// Every slug must exist; the error names all missing ones.
func (cs *CategoryService) ResolveForItem(ctx context.Context, slugs []string) ([]tables.Category, error) {
	start := time.Now()

	wanted := normalizeSlugs(slugs)
	if len(wanted) == 0 {
		return nil, lib.Invalid("item", "at least one category is required")
	}

	found, err := cs.store.Categories.FindBySlugs(ctx, wanted)
	if err != nil {
		return nil, storeErr("category", err)
	}

	bySlug := make(map[string]tables.Category, len(found))
	for _, c := range found {
		bySlug[c.Slug] = c
	}

	resolved := make([]tables.Category, 0, len(wanted))
	var missingSlugs []string
	for _, slug := range wanted {
		c, ok := bySlug[slug]
		if !ok {
			missingSlugs = append(missingSlugs, slug)
			continue
		}
		resolved = append(resolved, c)
	}
	if len(missingSlugs) > 0 {
		return nil, lib.NotFound("category", "slug", strings.Join(missingSlugs, ", "))
	}

	cs.logger.Debug("Categories resolved",
		gecho.Field("count", len(resolved)),
		gecho.Field("duration", time.Since(start)),
	)
	return resolved, nil
}

// ResolveOrCreate returns the category of every request, creating the ones
// whose slug does not exist yet. A new category whose name is already taken
// fails the whole batch.
func (cs *CategoryService) ResolveOrCreate(ctx context.Context, reqs []structs.CategoryCreateRequest) ([]structs.CategoryDto, error) {
	if len(reqs) == 0 {
		return nil, lib.Invalid("category", "at least one category is required")
	}

	resolved := make([]tables.Category, 0, len(reqs))
	created := 0
	err := cs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range reqs {
			slug := GenerateSlug(reqs[i].Slug)
			if slug == "" {
				slug = GenerateSlug(reqs[i].Name)
			}

			existing, err := cs.store.Categories.FindBySlug(ctx, slug)
			if err != nil {
				return storeErr("category", err)
			}
			if existing != nil {
				resolved = append(resolved, *existing)
				continue
			}

			category, err := cs.create(ctx, &reqs[i])
			if err != nil {
				return err
			}
			resolved = append(resolved, *category)
			created++
		}
		return nil
	})
	if err != nil {
		cs.logger.Warn("Failed to resolve categories", gecho.Field("error", err))
		return nil, err
	}

	cs.logger.Info("Categories resolved", gecho.Field("requested", len(reqs)), gecho.Field("created", created))
	return toCategoryDtos(resolved), nil
}
