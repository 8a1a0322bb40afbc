package lib

import (
	"crypto/subtle"
	"fmt"
	"net/http"
)

const (
	CSRFCookieName = "csrf"
	CSRFHeaderName = "X-CSRF-Token"
)

// GenerateCSRFToken generates a cryptographically secure random token
func GenerateCSRFToken() (string, error) {
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return token, nil
}

// ValidCSRF checks the double-submit pair: the header must equal the cookie.
func ValidCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	header := r.Header.Get(CSRFHeaderName)
	return subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) == 1
}
