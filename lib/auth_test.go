package lib

import (
	"dallasdresses_server/structs"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims(exp time.Time) *structs.AuthClaims {
	return &structs.AuthClaims{
		Sub:   12,
		Email: "jane@example.com",
		Role:  structs.RoleCustomer,
		Iat:   time.Now().Add(-time.Minute).Truncate(time.Second),
		Exp:   exp.Truncate(time.Second),
		Jti:   uuid.New(),
	}
}

func TestSignAndParseToken(t *testing.T) {
	claims := testClaims(time.Now().Add(time.Hour))
	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.True(t, claims.Exp.Equal(parsed.Exp))

	_, err = ParseToken(token, "other-secret")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken(testClaims(time.Now().Add(-time.Hour)), "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def")
	token, fromCookie, err := ExtractToken(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)
	assert.False(t, fromCookie)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, _, err = ExtractToken(r)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "from-cookie"})
	token, fromCookie, err = ExtractToken(r)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)
	assert.True(t, fromCookie)

	_, _, err = ExtractToken(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestPasswordHashing(t *testing.T) {
	params := &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

	encoded, salt, err := HashPassword("hunter2hunter2", params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"))
	assert.Contains(t, encoded, salt)

	ok, err := VerifyPassword("hunter2hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter3hunter3", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("whatever", "$bcrypt$nope")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestCSRF(t *testing.T) {
	token, err := GenerateCSRFToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	other, err := GenerateCSRFToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	r.Header.Set(CSRFHeaderName, token)
	assert.True(t, ValidCSRF(r))

	r.Header.Set(CSRFHeaderName, other)
	assert.False(t, ValidCSRF(r))

	noCookie := httptest.NewRequest(http.MethodPost, "/", nil)
	noCookie.Header.Set(CSRFHeaderName, token)
	assert.False(t, ValidCSRF(noCookie))
}

func TestCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(AccessCookieName, "tok", time.Now().Add(time.Hour), true, w)
	SetCSRFCookie("csrf-value", time.Now().Add(time.Hour), false, w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	assert.Equal(t, AccessCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)

	assert.Equal(t, CSRFCookieName, cookies[1].Name)
	assert.False(t, cookies[1].HttpOnly, "the frontend reads the csrf cookie")
	assert.Equal(t, http.SameSiteLaxMode, cookies[1].SameSite)

	cleared := httptest.NewRecorder()
	ClearCookie(AccessCookieName, false, cleared)
	require.Len(t, cleared.Result().Cookies(), 1)
	assert.Equal(t, -1, cleared.Result().Cookies()[0].MaxAge)
}
