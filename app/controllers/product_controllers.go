package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type ProductController struct {
	catalog  *services.CatalogService
	importer *services.ImportService
}

func NewProductController(catalog *services.CatalogService, importer *services.ImportService) *ProductController {
	return &ProductController{catalog: catalog, importer: importer}
}

func (h *ProductController) Create(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Product created successfully", p)
}

// List serves POST /api/product/get with {search, page, limit}.
func (h *ProductController) List(c *ctx.Context) {
	var in services.ProductQuery
	if !c.BindJSON(&in) {
		return
	}
	h.page(c, services.ProductQuery{Search: in.Search, Page: in.Page, Limit: in.Limit})
}

func (h *ProductController) ByCategory(c *ctx.Context) {
	var in struct {
		CategoryID    services.Ref `json:"categoryId"    validate:"required"`
		SubCategoryID services.Ref `json:"subCategoryId" validate:"required"`
		Page          int          `json:"page"`
		Limit         int          `json:"limit"`
	}
	if !c.BindJSON(&in) {
		return
	}
	h.page(c, services.ProductQuery{
		CategoryID:    uint(in.CategoryID),
		SubCategoryID: uint(in.SubCategoryID),
		Page:          in.Page,
		Limit:         in.Limit,
	})
}

func (h *ProductController) page(c *ctx.Context, q services.ProductQuery) {
	res, err := h.catalog.Products(c.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(res.Data, res.Total, res.Page, res.Limit)
}

func (h *ProductController) Details(c *ctx.Context) {
	var in struct {
		ProductID services.Ref `json:"productId" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.Product(c.Context(), uint(in.ProductID))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Product details", p)
}

// Update replaces every editable field of the product named by _id.
func (h *ProductController) Update(c *ctx.Context) {
	var in struct {
		ID services.Ref `json:"_id" validate:"required"`
		services.ProductInput
	}
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.UpdateProduct(c.Context(), uint(in.ID), in.ProductInput)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Product updated successfully", p)
}

func (h *ProductController) Delete(c *ctx.Context) {
	var in struct {
		ID services.Ref `json:"_id" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := h.catalog.DeleteProduct(c.Context(), uint(in.ID)); err != nil {
		fail(c, err)
		return
	}
	c.Success("Product deleted successfully", nil)
}

// BulkImport takes {text, mode} where text is an RTF or plain product sheet.
func (h *ProductController) BulkImport(c *ctx.Context) {
	var in struct {
		Text string `json:"text" validate:"required"`
		Mode string `json:"mode" validate:"nullable,in=bulk|sections"`
	}
	if !c.BindJSON(&in) {
		return
	}
	report, err := h.importer.Import(c.Context(), in.Text, in.Mode)
	if err != nil {
		fail(c, err)
		return
	}
	if report.Created == 0 {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   true,
			"message": "No valid products found",
			"data":    report,
		})
		return
	}
	c.Created("Products imported", report)
}
