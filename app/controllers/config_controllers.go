package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// PaymentConfig hands clients the publishable key and currency.
func PaymentConfig(c *ctx.Context) {
	c.Success("", map[string]string{
		"publishableKey": config.StripePublishableKey(),
		"currency":       config.PaymentCurrency(),
	})
}

const feedBacklog = 20

// OrdersFeed subscribes an admin websocket to order.placed broadcasts. The
// first frame is {"recent": [...]} with the latest orders, newest first.
func OrdersFeed(hub *ws.Hub, orders *services.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recent, err := orders.Recent(r.Context(), feedBacklog)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("orders feed: backlog unavailable", "error", err)
			recent = []models.Order{}
		}
		ws.Upgrade(w, r, hub, map[string][]models.Order{"recent": recent})
	}
}
