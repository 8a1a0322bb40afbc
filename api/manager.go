package api

import (
	"dallasdresses_server/api/auth"
	"dallasdresses_server/api/categories"
	"dallasdresses_server/api/health"
	"dallasdresses_server/api/images"
	"dallasdresses_server/api/items"
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/api/ratings"
	"dallasdresses_server/api/users"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type routerManager struct {
	routes []routeRegistrar
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		routes: []routeRegistrar{
			health.NewHealthRoutesManager(logger, sm.HealthService),
			auth.NewAuthRoutesManager(logger, sm.AuthService, sm.UserService, mw),
			categories.NewCategoryRoutesManager(logger, sm.CategoryService, mw),
			items.NewItemRoutesManager(logger, sm.ItemService, sm.VariantService, mw),
			images.NewImageRoutesManager(logger, sm.ImageService, mw),
			ratings.NewRatingRoutesManager(logger, sm.RatingService, mw),
			users.NewUserRoutesManager(logger, sm.UserService, sm.AddressService, mw),
		},
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	for _, routes := range rm.routes {
		routes.RegisterRoutes(r)
	}
}
