package categories

import (
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (cr *CategoryRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := cr.categoryService.GetAll(r.Context())
	if err != nil {
		handling.WriteError(err, "list categories", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (cr *CategoryRoutesManager) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse category id", cr.logger, w)
		return
	}

	category, err := cr.categoryService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get category", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

func (cr *CategoryRoutesManager) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := cr.categoryService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handling.WriteError(err, "get category by slug", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

// SearchCategory looks a category up by its exact name, ignoring case
func (cr *CategoryRoutesManager) SearchCategory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		gecho.BadRequest(w, gecho.WithMessage("Query parameter 'name' is required"), gecho.Send())
		return
	}

	category, err := cr.categoryService.GetByName(r.Context(), name)
	if err != nil {
		handling.WriteError(err, "search category", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

func (cr *CategoryRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode category", cr.logger, w)
		return
	}

	category, err := cr.categoryService.Create(r.Context(), body)
	if err != nil {
		handling.WriteError(err, "create category", cr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(category),
		gecho.WithMessage("Category created successfully"),
		gecho.Send(),
	)
}

type batchRequest struct {
	Categories []structs.CategoryCreateRequest `json:"categories" validate:"required,min=1,max=50,dive"`
}

// ResolveCategories returns the categories named in the body, creating the
// ones that do not exist yet
func (cr *CategoryRoutesManager) ResolveCategories(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[batchRequest](r)
	if err != nil {
		handling.WriteError(err, "decode category batch", cr.logger, w)
		return
	}

	categories, err := cr.categoryService.ResolveOrCreate(r.Context(), body.Categories)
	if err != nil {
		handling.WriteError(err, "resolve categories", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (cr *CategoryRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse category id", cr.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode category update", cr.logger, w)
		return
	}

	category, err := cr.categoryService.Update(r.Context(), id, body)
	if err != nil {
		handling.WriteError(err, "update category", cr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(category),
		gecho.WithMessage("Category updated successfully"),
		gecho.Send(),
	)
}

func (cr *CategoryRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse category id", cr.logger, w)
		return
	}

	if err := cr.categoryService.Delete(r.Context(), id); err != nil {
		handling.WriteError(err, "delete category", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category deleted successfully"), gecho.Send())
}

func (cr *CategoryRoutesManager) DeleteCategoryByName(w http.ResponseWriter, r *http.Request) {
	if err := cr.categoryService.DeleteByName(r.Context(), chi.URLParam(r, "name")); err != nil {
		handling.WriteError(err, "delete category by name", cr.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category deleted successfully"), gecho.Send())
}
