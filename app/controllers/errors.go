package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/payment"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// fail maps a service error onto the failure envelope.
func fail(c *ctx.Context, err error) {
	var (
		invalid  *services.ValidationError
		provider *payment.ProviderError
	)
	switch {
	case errors.As(err, &invalid):
		c.Error(http.StatusBadRequest, invalid.Message)
	case errors.As(err, &provider):
		c.Error(http.StatusBadRequest, provider.Message)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCartItemNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrTotalMismatch),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrCategoryExists):
		c.Error(http.StatusConflict, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, err.Error())
	}
}
