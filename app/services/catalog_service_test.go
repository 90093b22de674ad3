package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestCatalogProducts(t *testing.T) {
	db := newDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	dairy, err := svc.CreateCategory(ctx, CategoryInput{Name: "Dairy"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Dairy"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	milk, err := svc.CreateSubCategory(ctx, SubCategoryInput{Name: "Milk", Category: []Ref{Ref(dairy.ID)}})
	require.NoError(t, err)
	_, err = svc.CreateSubCategory(ctx, SubCategoryInput{Name: "Curd", Category: []Ref{999}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	subs, err := svc.SubCategories(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Dairy", subs[0].Categories[0].Name)

	p, err := svc.CreateProduct(ctx, ProductInput{
		Name:        "Toned Milk",
		Image:       []string{"milk.jpg"},
		Category:    []Ref{Ref(dairy.ID)},
		SubCategory: []Ref{Ref(milk.ID)},
		Unit:        "1 L",
		Stock:       20,
		Price:       decimal.NewFromInt(56),
		Discount:    5,
		Description: "Pasteurised",
		MoreDetails: map[string]models.DetailValue{"shelfLife": models.TextDetail("2 days")},
	})
	require.NoError(t, err)
	assert.True(t, p.Publish)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Paneer", Price: decimal.NewFromInt(90), Description: "Fresh"})
	require.NoError(t, err)

	hidden := false
	draft, err := svc.CreateProduct(ctx, ProductInput{Name: "Ghee", Price: decimal.NewFromInt(300), Publish: &hidden})
	require.NoError(t, err)
	stored, err := svc.Product(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, stored.Publish, "an unpublished product stays unpublished")

	page, err := svc.Products(ctx, ProductQuery{CategoryID: dairy.ID, SubCategoryID: milk.ID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	page, err = svc.Products(ctx, ProductQuery{Search: "paneer"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Paneer", page.Data[0].Name)

	updated, err := svc.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Toned Milk 1L", Price: decimal.NewFromInt(60), Description: "Pasteurised",
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Categories)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toned Milk 1L", got.Name)
	assert.Empty(t, got.Categories)
	assert.Empty(t, got.MoreDetails)

	_, err = svc.UpdateProduct(ctx, 9999, ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	_, err = svc.Product(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestImportBulkResolvesCategories(t *testing.T) {
	db := newDB(t)
	catalog := NewCatalogService(db)
	svc := NewImportService(catalog)
	ctx := context.Background()

	_, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Staples"})
	require.NoError(t, err)

	sheet := "Name: Atta\nDescription: Whole wheat\nPrice: 285\nCategory: staples\nSubcategory: Flour\n\n" +
		"Name: Besan\nDescription: Gram flour\nCategory: Snacks\n\n" +
		"Name: No description\n"

	report, err := svc.Import(ctx, sheet, "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Skipped)

	cats, err := catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	atta, err := catalog.Product(ctx, report.Products[0].ID)
	require.NoError(t, err)
	require.Len(t, atta.Categories, 1)
	assert.Equal(t, "Staples", atta.Categories[0].Name)
	require.Len(t, atta.SubCategories, 1)
	assert.Equal(t, "Flour", atta.SubCategories[0].Name)

	_, err = svc.Import(ctx, sheet, "columns")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestImportSections(t *testing.T) {
	db := newDB(t)
	svc := NewImportService(NewCatalogService(db))

	report, err := svc.Import(context.Background(),
		"Product Details\nGhee\nPure cow ghee\nKey Features\n- Rich aroma", ImportSections)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	assert.Equal(t, models.ListDetail("Rich aroma"), report.Products[0].MoreDetails["keyFeatures"])
}
