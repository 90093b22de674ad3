package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AddressController struct {
	addresses *services.AddressService
}

func NewAddressController(addresses *services.AddressService) *AddressController {
	return &AddressController{addresses: addresses}
}

func (h *AddressController) Create(c *ctx.Context) {
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	a, err := h.addresses.Create(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Address created successfully", a)
}

func (h *AddressController) List(c *ctx.Context) {
	list, err := h.addresses.List(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Address list", list)
}

func (h *AddressController) Update(c *ctx.Context) {
	var in struct {
		ID services.Ref `json:"_id" validate:"required"`
		services.AddressInput
	}
	if !c.BindJSON(&in) {
		return
	}
	a, err := h.addresses.Update(c.Context(), c.UserID(), uint(in.ID), in.AddressInput)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Address updated", a)
}

func (h *AddressController) Disable(c *ctx.Context) {
	var in struct {
		ID services.Ref `json:"_id" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := h.addresses.Disable(c.Context(), c.UserID(), uint(in.ID)); err != nil {
		fail(c, err)
		return
	}
	c.Success("Address removed", nil)
}
