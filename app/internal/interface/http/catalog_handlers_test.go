package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	t.Run("default sort is rating", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		require.EqualValues(t, 5, body["total"])
		require.EqualValues(t, 20, body["limit"])
		data := body["data"].([]any)
		require.Len(t, data, 5)
		require.Equal(t, "Stainless Steel Water Bottle", data[0].(map[string]any)["name"])
	})

	t.Run("category is case insensitive", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products?category=electronics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.EqualValues(t, 2, decode(t, rec)["total"])
	})

	t.Run("all means no category filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products?category=all", nil)
		require.EqualValues(t, 5, decode(t, rec)["total"])
	})

	t.Run("price range and sort", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products?min_price=25&max_price=100&sort=price_asc", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].([]any)
		require.Len(t, data, 3)
		require.Equal(t, 29.99, data[0].(map[string]any)["price"])
		require.Equal(t, 89.99, data[2].(map[string]any)["price"])
	})

	t.Run("search matches tags and description", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products?search=BLUETOOTH", nil)
		data := decode(t, rec)["data"].([]any)
		require.NotEmpty(t, data)
		require.Equal(t, "1", data[0].(map[string]any)["id"])
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/products?limit=2&offset=4", nil)
		body := decode(t, rec)
		require.EqualValues(t, 5, body["total"])
		require.Len(t, body["data"].([]any), 1)
	})

	t.Run("malformed numbers are rejected", func(t *testing.T) {
		for _, q := range []string{"min_price=cheap", "max_price=1e", "limit=x", "sort=alphabetical"} {
			rec := env.do(t, http.MethodGet, "/api/v1/products?"+q, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ergonomic Office Chair", decode(t, rec)["name"])

	rec = env.do(t, http.MethodGet, "/api/v1/products/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "product not found", decode(t, rec)["error"])
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)

	t.Run("sorted by start date", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/events?upcoming=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].([]any)
		require.Len(t, data, 4)
		require.Equal(t, "Small Business Networking Mixer", data[0].(map[string]any)["title"])
	})

	t.Run("free events", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/events?max_price=0", nil)
		require.EqualValues(t, 2, decode(t, rec)["total"])
	})

	t.Run("radius", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/events?lat=37.7749&lng=-122.4194&radius=0.1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].([]any)
		require.Len(t, data, 1)
		require.Equal(t, "1", data[0].(map[string]any)["id"])

		rec = env.do(t, http.MethodGet, "/api/v1/events?lat=40.7128&lng=-74.0060&radius=50", nil)
		require.EqualValues(t, 0, decode(t, rec)["total"])
	})

	t.Run("partial location", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/events?lat=37.7", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/events/nope", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFacets(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog/facets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Len(t, body["product_categories"].([]any), 4)
	require.Len(t, body["event_categories"].([]any), 4)
	priceRange := body["price_range"].(map[string]any)
	require.Equal(t, 24.99, priceRange["min"])
	require.Equal(t, 199.99, priceRange["max"])
	require.EqualValues(t, 5, body["availability"].(map[string]any)["in_stock"])
}
