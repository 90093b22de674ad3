package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (h *CartController) Add(c *ctx.Context) {
	var in struct {
		ProductID services.Ref `json:"productId" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.carts.Add(c.Context(), c.UserID(), uint(in.ProductID))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Item add successfully", item)
}

func (h *CartController) List(c *ctx.Context) {
	view, err := h.carts.List(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("", view)
}

func (h *CartController) UpdateQuantity(c *ctx.Context) {
	var in struct {
		ID  services.Ref `json:"_id" validate:"required"`
		Qty int          `json:"qty"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := h.carts.UpdateQuantity(c.Context(), c.UserID(), uint(in.ID), in.Qty); err != nil {
		fail(c, err)
		return
	}
	if in.Qty < 1 {
		c.Success("Item removed", nil)
		return
	}
	c.Success("Update cart", nil)
}

// Remove deletes one line ({_id}) or the whole cart ({clearAll:true}).
func (h *CartController) Remove(c *ctx.Context) {
	var in struct {
		ID       services.Ref `json:"_id"`
		ClearAll bool         `json:"clearAll"`
	}
	if !c.BindJSON(&in) {
		return
	}

	var err error
	switch {
	case in.ClearAll:
		err = h.carts.Clear(c.Context(), c.UserID())
	case in.ID != 0:
		err = h.carts.Remove(c.Context(), c.UserID(), uint(in.ID))
	default:
		c.Error(http.StatusBadRequest, "Provide _id or clearAll")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Item removed", nil)
}
