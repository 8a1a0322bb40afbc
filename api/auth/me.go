package auth

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleMe returns the profile of the authenticated user
func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := ar.userService.GetByID(r.Context(), claims.Sub)
	if err != nil {
		handling.WriteError(err, "get current user", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}
