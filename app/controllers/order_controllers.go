package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/payment"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type OrderController struct {
	orders   *services.OrderService
	payments *services.PaymentService
}

func NewOrderController(orders *services.OrderService, payments *services.PaymentService) *OrderController {
	return &OrderController{orders: orders, payments: payments}
}

func (h *OrderController) CashOnDelivery(c *ctx.Context) {
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	orders, err := h.orders.PlaceCashOnDelivery(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Order successfully", orders)
}

// Checkout starts a card payment or settles a simulated UPI payment. Both
// answer at the top level of the body rather than under data.
func (h *OrderController) Checkout(c *ctx.Context) {
	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.payments.Checkout(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}

	if res.OrderID != "" {
		c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"error":   false,
			"message": "Payment successful and order created",
			"orderId": res.OrderID,
		})
		return
	}
	c.JSON(http.StatusOK, map[string]interface{}{
		"success":              true,
		"error":                false,
		"clientSecret":         res.ClientSecret,
		"payment_method_types": res.PaymentMethodTypes,
		"payment_intent_id":    res.PaymentIntentID,
	})
}

// Webhook receives provider events. The body is read raw because the
// signature covers the exact bytes.
func (h *OrderController) Webhook(c *ctx.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.W, c.R.Body, config.MaxBodyBytes()))
	if err != nil {
		c.Error(http.StatusBadRequest, "Unable to read webhook body")
		return
	}

	err = h.payments.HandleWebhook(c.Context(), payload, c.Header("Stripe-Signature"))
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		logger.WithCtx(c.Context()).Warn("webhook signature rejected", "error", err)
		c.Error(http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	case err != nil:
		c.Error(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func (h *OrderController) List(c *ctx.Context) {
	orders, err := h.orders.List(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Order list", orders)
}
