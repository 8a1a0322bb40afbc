package ratings

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type RatingRoutesManager struct {
	logger        *gecho.Logger
	ratingService *services.RatingService
	mw            *middleware.Middleware
}

func NewRatingRoutesManager(logger *gecho.Logger, ratingService *services.RatingService, mw *middleware.Middleware) *RatingRoutesManager {
	return &RatingRoutesManager{
		logger:        logger,
		ratingService: ratingService,
		mw:            mw,
	}
}

func (rm *RatingRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/items/{id}/ratings", rm.ListItemRatings)
	r.Get("/items/{id}/ratings/breakdown", rm.GetBreakdown)
	r.Get("/ratings/{id}", rm.GetRating)

	r.Group(func(r chi.Router) {
		r.Use(rm.mw.UserAuthMiddleware)

		r.Get("/ratings/mine", rm.ListMyRatings)
		r.Post("/items/{id}/ratings", rm.CreateRating)
		r.Put("/ratings/{id}", rm.UpdateRating)
		r.Delete("/ratings/{id}", rm.DeleteRating)
		r.Post("/ratings/{id}/helpful", rm.MarkHelpful)
	})
}
