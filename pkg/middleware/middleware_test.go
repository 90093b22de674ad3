package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.AuthMiddleware(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":true`)
}

func TestAuthMiddlewareInjectsClaims(t *testing.T) {
	token, err := auth.GenerateToken(9, "user")
	assert.NoError(t, err)

	var gotID uint
	var gotRole string
	h := middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = middleware.UserIDFromCtx(r)
		gotRole, _ = middleware.RoleFromCtx(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(9), gotID)
	assert.Equal(t, "user", gotRole)
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	token, _ := auth.GenerateRefreshToken(9, "user")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware.AuthMiddleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitPerInstance(t *testing.T) {
	strict := middleware.RateLimit(2, time.Minute)(http.HandlerFunc(okHandler))
	loose := middleware.RateLimit(100, time.Minute)(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		strict.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:5555"
	rec := httptest.NewRecorder()
	loose.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "separate limiter instances keep separate counters")
}

func TestRecoveryReturns500Envelope(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestCORSPreflight(t *testing.T) {
	opts := middleware.CORSOptions{
		AllowedOrigins: []string{"https://shop.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         60,
	}
	h := middleware.CORS(opts)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/get", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "60", rec.Header().Get("Access-Control-Max-Age"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
