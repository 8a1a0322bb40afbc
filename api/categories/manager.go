package categories

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CategoryRoutesManager struct {
	logger          *gecho.Logger
	categoryService *services.CategoryService
	mw              *middleware.Middleware
}

func NewCategoryRoutesManager(logger *gecho.Logger, categoryService *services.CategoryService, mw *middleware.Middleware) *CategoryRoutesManager {
	return &CategoryRoutesManager{
		logger:          logger,
		categoryService: categoryService,
		mw:              mw,
	}
}

func (cr *CategoryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", cr.ListCategories)
		r.Get("/search", cr.SearchCategory)
		r.Get("/slug/{slug}", cr.GetCategoryBySlug)
		r.Get("/{id}", cr.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(cr.mw.UserAuthMiddleware)
			r.Use(cr.mw.AdminAuthMiddleware)

			r.Post("/", cr.CreateCategory)
			r.Post("/batch", cr.ResolveCategories)
			r.Put("/{id}", cr.UpdateCategory)
			r.Delete("/{id}", cr.DeleteCategory)
			r.Delete("/name/{name}", cr.DeleteCategoryByName)
		})
	})
}
