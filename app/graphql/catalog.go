// Package graphql exposes a read-only view of the catalogue.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/pricing"
	"github.com/shashiranjanraj/storefront/app/services"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":  &graphql.Field{Type: graphql.String},
		"image": &graphql.Field{Type: graphql.String},
	},
})

// Money values are strings so no precision is lost on the way out.
var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		"unit":        &graphql.Field{Type: graphql.String},
		"stock":       &graphql.Field{Type: graphql.Int},
		"price":       &graphql.Field{Type: graphql.String},
		"discount":    &graphql.Field{Type: graphql.Int},
		"finalPrice":  &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.NewList(categoryType)},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"data":        &graphql.Field{Type: graphql.NewList(productType)},
		"totalCount":  &graphql.Field{Type: graphql.Int},
		"totalNoPage": &graphql.Field{Type: graphql.Int},
		"page":        &graphql.Field{Type: graphql.Int},
		"limit":       &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the catalogue schema over catalog.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"search":        &graphql.ArgumentConfig{Type: graphql.String},
					"categoryId":    &graphql.ArgumentConfig{Type: graphql.Int},
					"subCategoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":          &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":         &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := services.ProductQuery{
						Search:        stringArg(p, "search"),
						CategoryID:    uint(intArg(p, "categoryId")),
						SubCategoryID: uint(intArg(p, "subCategoryId")),
						Page:          intArg(p, "page"),
						Limit:         intArg(p, "limit"),
					}
					page, err := catalog.Products(p.Context, q)
					if err != nil {
						return nil, err
					}
					data := make([]map[string]interface{}, 0, len(page.Data))
					for i := range page.Data {
						data = append(data, productView(&page.Data[i]))
					}
					return map[string]interface{}{
						"data":        data,
						"totalCount":  page.Total,
						"totalNoPage": page.Pages,
						"page":        page.Page,
						"limit":       page.Limit,
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prod, err := catalog.Product(p.Context, uint(intArg(p, "id")))
					if err != nil {
						return nil, err
					}
					return productView(prod), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cats, err := catalog.Categories(p.Context)
					if err != nil {
						return nil, err
					}
					return categoryViews(cats), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func productView(p *models.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":          int(p.ID),
		"name":        p.Name,
		"image":       p.Images,
		"unit":        p.Unit,
		"stock":       p.Stock,
		"price":       p.Price.String(),
		"discount":    p.Discount,
		"finalPrice":  pricing.PriceWithDiscount(p.Price, p.Discount).String(),
		"description": p.Description,
		"category":    categoryViews(p.Categories),
	}
}

func categoryViews(cats []models.Category) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(cats))
	for _, c := range cats {
		out = append(out, map[string]interface{}{"id": int(c.ID), "name": c.Name, "image": c.Image})
	}
	return out
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}
