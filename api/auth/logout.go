package auth

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	if err := ar.authService.Logout(r.Context(), claims); err != nil {
		ar.logger.Error("Failed to blacklist access token during logout", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to logout"),
			gecho.Send(),
		)
		return
	}

	secure := ar.authService.CookieSecure()
	lib.ClearCookie(lib.AccessCookieName, secure, w)
	lib.ClearCookie(lib.CSRFCookieName, secure, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
