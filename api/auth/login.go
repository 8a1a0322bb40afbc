package auth

import (
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		ar.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		handling.WriteError(err, "decode login", ar.logger, w)
		return
	}

	res, err := ar.authService.Login(r.Context(), body)
	if err != nil {
		ar.logger.Warn("Login failed", gecho.Field("error", err))
		handling.WriteError(err, "login", ar.logger, w)
		return
	}

	secure := ar.authService.CookieSecure()
	lib.SetCookie(lib.AccessCookieName, res.AccessToken, res.ExpiresAt, secure, w)
	if _, err := ar.issueCSRF(w); err != nil {
		// the bearer token in the body still works without the cookie pair
		ar.logger.Warn("Failed to set CSRF cookie on login", gecho.Field("error", err))
	}

	gecho.Success(w,
		gecho.WithData(res),
		gecho.WithMessage("Login successful"),
		gecho.Send(),
	)
}
