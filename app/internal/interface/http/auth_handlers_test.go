package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username":  "Alice",
		"password":  "secret123",
		"location":  "San Francisco",
		"latitude":  37.77,
		"longitude": -122.41,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "CUSTOMER", user["role_code"])
	require.NotContains(t, user, "password_hash")

	t.Run("duplicate username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "ALICE", "password": "secret123"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "a b c", "password": "secret123"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "bob", "password": "123"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("multibyte password over 72 bytes", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
			"username": "erin",
			"password": strings.Repeat("é", 40),
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		require.Equal(t, "invalid credential", decode(t, rec)["error"])
	})

	t.Run("login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "alice", "password": "secret123"})
		require.Equal(t, http.StatusOK, rec.Code)
		token := decode(t, rec)["token"].(string)

		rec = env.do(t, http.MethodGet, "/api/v1/me", nil, withToken(token))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "San Francisco", decode(t, rec)["location"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "alice", "password": "wrong-pass"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "nobody", "password": "secret123"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLoginAdoptsGuestData(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "carol")

	rec := env.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "4", "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	guest := withCookies(rec.Result().Cookies())
	env.do(t, http.MethodPost, "/api/v1/favorites/event/1/toggle", nil, guest)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "carol", "password": "secret123"}, guest)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil, withToken(token))
	require.EqualValues(t, 2, decode(t, rec)["item_count"])

	rec = env.do(t, http.MethodGet, "/api/v1/favorites/event/1/check", nil, withToken(token))
	require.Equal(t, true, decode(t, rec)["is_favorite"])

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil, guest)
	require.EqualValues(t, 0, decode(t, rec)["item_count"])
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/me", nil, withToken("garbage"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil, withToken("garbage"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateLocation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "dave")

	rec := env.do(t, http.MethodPut, "/api/v1/me/location", map[string]any{"location": "Oakland", "latitude": 37.80, "longitude": -122.27}, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Oakland", body["location"])
	require.Equal(t, 37.80, body["latitude"])

	rec = env.do(t, http.MethodPut, "/api/v1/me/location", map[string]any{"latitude": 123.0}, withToken(token))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnvWith(t, testEnvOptions{rateLimit: 0.001, rateBurst: 2})

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "nobody", "password": "secret123"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "nobody", "password": "secret123"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
