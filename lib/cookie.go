package lib

import (
	"net/http"
	"time"
)

const AccessCookieName = "access_token"

// SetCookie sets a HttpOnly cookie for authentication usage
func SetCookie(key, val string, expiry time.Time, secure bool, w http.ResponseWriter) {
	http.SetCookie(w, newCookie(key, val, expiry, secure, true))
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, secure bool, w http.ResponseWriter) {
	cookie := newCookie(key, "", time.Now().Add(-time.Hour), secure, true)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, secure bool, w http.ResponseWriter) {
	cookie := newCookie(CSRFCookieName, val, expiry, secure, false)
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	http.SetCookie(w, cookie)
}

func newCookie(key, val string, expiry time.Time, secure, httpOnly bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if secure {
		// cross-site frontends need None, which browsers only accept with Secure
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     key,
		Value:    val,
		Expires:  expiry,
		Path:     "/",
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: httpOnly,
	}
}
