package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/payment"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// Deps are the runtime collaborators the routes are built over. Hub may be
// nil, in which case the admin order feed is not mounted.
type Deps struct {
	DB      *gorm.DB
	Gateway payment.Gateway
	Hub     *ws.Hub
}

func RegisterAPI(r *router.Router, d Deps) error {
	catalog := services.NewCatalogService(d.DB)
	orders := services.NewOrderService(d.DB)

	users := controllers.NewUserController(services.NewAuthService(d.DB))
	categories := controllers.NewCategoryController(catalog)
	products := controllers.NewProductController(catalog, services.NewImportService(catalog))
	uploads := controllers.NewUploadController()
	carts := controllers.NewCartController(services.NewCartService(d.DB))
	addresses := controllers.NewAddressController(services.NewAddressService(d.DB))
	checkout := controllers.NewOrderController(orders, services.NewPaymentService(d.DB, orders, d.Gateway))

	auth := middleware.AuthMiddleware
	admin := []router.Middleware{auth, rbac.Admin}

	api := r.Group("/api")

	user := api.Group("/user")
	user.Post("/register", "user.register", ctx.Wrap(users.Register))
	user.Post("/login", "user.login", ctx.Wrap(users.Login))
	user.Post("/refresh-token", "user.refresh", ctx.Wrap(users.RefreshToken))
	user.Get("/user-details", "user.details", ctx.Wrap(users.Details), auth)

	category := api.Group("/category")
	category.Get("/get", "category.get", ctx.Wrap(categories.List))
	category.Post("/add", "category.add", ctx.Wrap(categories.Create), admin...)

	sub := api.Group("/subcategory")
	sub.Get("/get", "subcategory.get", ctx.Wrap(categories.ListSub))
	sub.Post("/create", "subcategory.create", ctx.Wrap(categories.CreateSub), admin...)

	product := api.Group("/product")
	product.Post("/get", "product.get", ctx.Wrap(products.List))
	product.Post("/get-product-by-category-and-subcategory", "product.by-category", ctx.Wrap(products.ByCategory))
	product.Post("/get-product-details", "product.details", ctx.Wrap(products.Details))
	product.Post("/create", "product.create", ctx.Wrap(products.Create), admin...)
	product.Put("/update-product-details", "product.update", ctx.Wrap(products.Update), admin...)
	product.Delete("/delete-product", "product.delete", ctx.Wrap(products.Delete), admin...)
	product.Post("/bulk-import", "product.bulk-import", ctx.Wrap(products.BulkImport), admin...)

	api.Post("/file/upload", "file.upload", ctx.Wrap(uploads.Image), admin...)

	cart := api.Group("/cart", auth)
	cart.Post("/create", "cart.create", ctx.Wrap(carts.Add))
	cart.Get("/get", "cart.get", ctx.Wrap(carts.List))
	cart.Put("/update-qty", "cart.update-qty", ctx.Wrap(carts.UpdateQuantity))
	cart.Delete("/delete-cart-item", "cart.delete", ctx.Wrap(carts.Remove))

	address := api.Group("/address", auth)
	address.Post("/create", "address.create", ctx.Wrap(addresses.Create))
	address.Get("/get", "address.get", ctx.Wrap(addresses.List))
	address.Put("/update", "address.update", ctx.Wrap(addresses.Update))
	address.Delete("/disable", "address.disable", ctx.Wrap(addresses.Disable))

	order := api.Group("/order")
	order.Post("/cash-on-delivery", "order.cod", ctx.Wrap(checkout.CashOnDelivery), auth)
	order.Post("/checkout", "order.checkout", ctx.Wrap(checkout.Checkout), auth)
	order.Post("/webhook", "order.webhook", ctx.Wrap(checkout.Webhook))
	order.Get("/order-list", "order.list", ctx.Wrap(checkout.List), auth)

	api.Get("/config/payment", "config.payment", ctx.Wrap(controllers.PaymentConfig))
	if d.Hub != nil {
		api.Get("/admin/orders/feed", "admin.orders.feed", controllers.OrdersFeed(d.Hub, orders), admin...)
	}

	schema, err := appgraphql.NewSchema(catalog)
	if err != nil {
		return err
	}
	r.Handle("/graphql", "graphql", graphql.Handler(schema))
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "ok", nil)
	})
	return nil
}
