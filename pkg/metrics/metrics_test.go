package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
	}

	body := scrape(t)
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",path="/orders/{id}",status="418"} 2`)
	assert.NotContains(t, body, `path="/orders/1"`)
}

func TestBusinessCountersExposed(t *testing.T) {
	RecordOrder("CASH ON DELIVERY", 2, 120.5)
	CartMutations.WithLabelValues("add").Inc()
	WebhookEvents.WithLabelValues("payment_intent.succeeded", "duplicate").Inc()

	body := scrape(t)
	assert.Contains(t, body, `storefront_orders_placed_total{payment_status="CASH ON DELIVERY"} 2`)
	assert.Contains(t, body, "storefront_orders_revenue_total 120.5")
	assert.Contains(t, body, `storefront_cart_mutations_total{op="add"} 1`)
	assert.Contains(t, body, `result="duplicate"`)
}
