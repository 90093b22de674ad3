package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (h *CategoryController) Create(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Category added", cat)
}

func (h *CategoryController) List(c *ctx.Context) {
	cats, err := h.catalog.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("", cats)
}

func (h *CategoryController) CreateSub(c *ctx.Context) {
	var in services.SubCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	sub, err := h.catalog.CreateSubCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Sub category added", sub)
}

func (h *CategoryController) ListSub(c *ctx.Context) {
	subs, err := h.catalog.SubCategories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("", subs)
}
