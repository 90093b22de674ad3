package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMiddlewareOrderAndNames(t *testing.T) {
	r := New()
	var trail []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	cart := api.Group("cart/", tag("auth"))
	cart.Put("/update-qty", "cart.update", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/cart/update-qty", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"api", "auth", "route"}, trail)

	path, ok := r.Path("cart.update")
	require.True(t, ok)
	assert.Equal(t, "/api/cart/update-qty", path)
}

func TestMethodMismatchIs405(t *testing.T) {
	r := New()
	r.Delete("/api/address/disable", "", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/address/disable", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestURL(t *testing.T) {
	r := New()
	r.Get("/orders/{id}", "orders.show", func(http.ResponseWriter, *http.Request) {})

	u, err := r.URL("orders.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/7", u)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	r.Post("/b", "b", func(http.ResponseWriter, *http.Request) {})
	r.Get("/a", "", func(http.ResponseWriter, *http.Request) {})
	r.Handle("/metrics", "metrics", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Method: "GET", Path: "/a"}, routes[0])
	assert.Equal(t, "/b", routes[1].Path)
	assert.Equal(t, "*", routes[2].Method)
}
