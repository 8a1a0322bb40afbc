package auth

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	userService *services.UserService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	userService *services.UserService,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		userService: userService,
		mw:          mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// CSRF token endpoint (must be called before cookie-authenticated writes)
		r.Get("/csrf", ar.HandleCSRF)
		r.Post("/login", ar.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.UserAuthMiddleware)
			r.Post("/logout", ar.HandleLogout)
			r.Get("/me", ar.HandleMe)
		})
	})
}
