package users

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type UserRoutesManager struct {
	logger         *gecho.Logger
	userService    *services.UserService
	addressService *services.AddressService
	mw             *middleware.Middleware
}

func NewUserRoutesManager(
	logger *gecho.Logger,
	userService *services.UserService,
	addressService *services.AddressService,
	mw *middleware.Middleware,
) *UserRoutesManager {
	return &UserRoutesManager{
		logger:         logger,
		userService:    userService,
		addressService: addressService,
		mw:             mw,
	}
}

func (ur *UserRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		// Public registration, admins may also set a role
		r.With(ur.mw.OptionalAuthMiddleware).Post("/", ur.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(ur.mw.UserAuthMiddleware)

			r.Get("/{id}", ur.GetUser)
			r.Put("/{id}", ur.UpdateUser)
			r.Delete("/{id}", ur.DeleteUser)

			r.Group(func(r chi.Router) {
				r.Use(ur.mw.AdminAuthMiddleware)
				r.Get("/", ur.ListUsers)
				r.Get("/search", ur.SearchUser)
			})
		})
	})

	r.Route("/addresses", func(r chi.Router) {
		r.Use(ur.mw.UserAuthMiddleware)

		r.With(ur.mw.AdminAuthMiddleware).Get("/", ur.ListAddresses)
		r.Get("/user/{userId}", ur.ListUserAddresses)
		r.Get("/{id}", ur.GetAddress)
		r.Post("/", ur.CreateAddress)
		r.Put("/{id}", ur.UpdateAddress)
		r.Delete("/{id}", ur.DeleteAddress)
	})
}
