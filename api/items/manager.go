package items

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ItemRoutesManager struct {
	logger         *gecho.Logger
	itemService    *services.ItemService
	variantService *services.ItemVariantService
	mw             *middleware.Middleware
}

func NewItemRoutesManager(
	logger *gecho.Logger,
	itemService *services.ItemService,
	variantService *services.ItemVariantService,
	mw *middleware.Middleware,
) *ItemRoutesManager {
	return &ItemRoutesManager{
		logger:         logger,
		itemService:    itemService,
		variantService: variantService,
		mw:             mw,
	}
}

func (ir *ItemRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/items", ir.ListItems)
	r.Get("/items/slug/{slug}", ir.ListItemsByCategory)
	r.Get("/items/{id}", ir.GetItem)
	r.Get("/items/{id}/variants", ir.ListVariants)
	r.Get("/items/{id}/variants/{variantId}", ir.GetVariant)

	r.Group(func(r chi.Router) {
		r.Use(ir.mw.UserAuthMiddleware)
		r.Use(ir.mw.AdminAuthMiddleware)

		r.Post("/items", ir.CreateItem)
		r.Put("/items/{id}", ir.UpdateItem)
		r.Delete("/items/{id}", ir.DeleteItem)

		r.Post("/items/{id}/categories/{slug}", ir.AddCategory)
		r.Delete("/items/{id}/categories/{slug}", ir.RemoveCategory)
		r.Post("/items/{id}/children/{childId}", ir.AddChild)
		r.Delete("/items/{id}/children/{childId}", ir.RemoveChild)

		r.Post("/items/{id}/variants", ir.CreateVariant)
		r.Put("/items/{id}/variants/{variantId}", ir.UpdateVariant)
		r.Delete("/items/{id}/variants/{variantId}", ir.DeleteVariant)
	})
}
