package images

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ImageRoutesManager struct {
	logger       *gecho.Logger
	imageService *services.ItemImageService
	mw           *middleware.Middleware
}

func NewImageRoutesManager(logger *gecho.Logger, imageService *services.ItemImageService, mw *middleware.Middleware) *ImageRoutesManager {
	return &ImageRoutesManager{
		logger:       logger,
		imageService: imageService,
		mw:           mw,
	}
}

func (im *ImageRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/images", im.ListImages)
	r.Get("/images/{id}", im.GetImage)
	r.Get("/items/{id}/images", im.ListItemImages)

	r.Group(func(r chi.Router) {
		r.Use(im.mw.UserAuthMiddleware)
		r.Use(im.mw.AdminAuthMiddleware)

		r.Post("/images", im.CreateImage)
		r.Put("/images/{id}", im.UpdateImage)
		r.Delete("/images/{id}", im.DeleteImage)
	})
}
