package auth

import (
	"dallasdresses_server/lib"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

const csrfTTL = 24 * time.Hour

// HandleCSRF generates and sets a CSRF token
func (ar *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := ar.issueCSRF(w)
	if err != nil {
		ar.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.csrf.failedToGenerate"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.csrf.generated"),
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) issueCSRF(w http.ResponseWriter) (string, error) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		return "", err
	}
	lib.SetCSRFCookie(token, time.Now().Add(csrfTTL), ar.authService.CookieSecure(), w)
	return token, nil
}
