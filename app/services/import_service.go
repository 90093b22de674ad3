package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/importer"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	ImportBulk     = "bulk"
	ImportSections = "sections"
)

// ImportReport summarises one product import.
type ImportReport struct {
	Created  int              `json:"created"`
	Skipped  int              `json:"skipped"`
	Products []models.Product `json:"products"`
}

// ImportService turns RTF product sheets into catalogue products.
type ImportService struct {
	catalog *CatalogService
}

func NewImportService(catalog *CatalogService) *ImportService {
	return &ImportService{catalog: catalog}
}

// Import parses text in the given mode (ImportBulk by default), resolves
// category and subcategory names, creating the missing ones, and inserts
// the products.
func (s *ImportService) Import(ctx context.Context, text, mode string) (*ImportReport, error) {
	var (
		drafts  []importer.Draft
		skipped int
	)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ImportSections:
		d := importer.ParseSections(text)
		if d.Valid() {
			drafts = append(drafts, d)
		} else {
			skipped++
		}
	case "", ImportBulk:
		drafts, skipped = importer.ParseBulk(text)
	default:
		return nil, invalid("mode", "The mode must be %s or %s.", ImportBulk, ImportSections)
	}

	products := make([]*models.Product, 0, len(drafts))
	for _, d := range drafts {
		p, err := s.resolve(ctx, d)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	n, err := s.catalog.CreateProducts(ctx, products)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Created: n, Skipped: skipped, Products: make([]models.Product, 0, n)}
	for _, p := range products[:n] {
		report.Products = append(report.Products, *p)
	}
	logger.WithCtx(ctx).Info("products imported", "created", n, "skipped", skipped, "mode", mode)
	return report, nil
}

func (s *ImportService) resolve(ctx context.Context, d importer.Draft) (*models.Product, error) {
	p := &models.Product{
		Name:        d.Name,
		Description: d.Description,
		Unit:        d.Unit,
		Price:       d.Price,
		Stock:       d.Stock,
		Discount:    min(d.Discount, 100),
		Images:      d.Images,
		MoreDetails: d.MoreDetails,
		Publish:     true,
	}

	var parent *models.Category
	if d.Category != "" {
		c, err := s.catalog.FindOrCreateCategory(ctx, d.Category)
		if err != nil {
			return nil, err
		}
		parent = c
		p.Categories = []models.Category{*c}
	}
	if d.SubCategory != "" {
		sub, err := s.catalog.FindOrCreateSubCategory(ctx, d.SubCategory, parent)
		if err != nil {
			return nil, err
		}
		p.SubCategories = []models.SubCategory{*sub}
	}
	return p, nil
}
