// Package kernel assembles the storefront HTTP handler: the global
// middleware stack wrapped around the route table.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router with global middleware applied, outermost
// first:
//  1. Prometheus metrics, for the whole request latency
//  2. Recovery
//  3. Request ID, before anything logs
//  4. Access log
//  5. CORS
//  6. Per-IP rate limit
func NewHTTPKernel(deps routes.Deps) (*HTTPKernel, error) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	if err := routes.RegisterAPI(r, deps); err != nil {
		return nil, err
	}
	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }
