package middleware

import (
	"dallasdresses_server/structs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testMiddleware() *Middleware {
	return &Middleware{cfg: &structs.Config{
		Server: &structs.ServerConfig{BasePath: "/api/v1"},
		RateLimit: &structs.RateLimitConfig{
			GeneralLimit:  100,
			GeneralWindow: time.Minute,
			AuthLimit:     5,
			AuthWindow:    15 * time.Minute,
			AdminLimit:    30,
			AdminWindow:   time.Minute,
		},
	}}
}

func TestNormalizeEndpoint(t *testing.T) {
	mw := testMiddleware()
	assert.Equal(t, "/items/:id/ratings", mw.normalizeEndpoint("/api/v1/items/42/ratings"))
	assert.Equal(t, "/categories", mw.normalizeEndpoint("/api/v1/categories/"))
	assert.Equal(t, "/items/slug/silk-gown", mw.normalizeEndpoint("/api/v1/items/slug/silk-gown"))
	assert.Equal(t, "", mw.normalizeEndpoint("/api/v1"))
}

func TestGetRateLimitForEndpoint(t *testing.T) {
	mw := testMiddleware()
	tests := []struct {
		path, method string
		limit        int
	}{
		{"/auth/login", http.MethodPost, 5},
		{"/users", http.MethodPost, 5},
		{"/items", http.MethodPost, 30},
		{"/categories/:id", http.MethodDelete, 30},
		{"/items/:id/ratings", http.MethodPost, 100},
		{"/ratings/:id", http.MethodPut, 100},
		{"/addresses", http.MethodPost, 100},
		{"/users/:id", http.MethodPut, 100},
		{"/items", http.MethodGet, 100},
	}
	for _, tt := range tests {
		limit, _ := mw.getRateLimitForEndpoint(tt.path, tt.method)
		assert.Equal(t, tt.limit, limit, "%s %s", tt.method, tt.path)
	}
}

func TestGetClientIP(t *testing.T) {
	mw := testMiddleware()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", mw.getClientIP(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", mw.getClientIP(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", mw.getClientIP(r))
}
