package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

const catalogPrefix = "catalog:"

type CategoryInput struct {
	Name  string `json:"name"  validate:"required,min=2,max=150"`
	Image string `json:"image" validate:"nullable,max=500"`
}

type SubCategoryInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=150"`
	Image    string `json:"image"    validate:"nullable,max=500"`
	Category []Ref  `json:"category" validate:"required"`
}

type ProductInput struct {
	Name        string                        `json:"name"        validate:"required,min=2,max=255"`
	Image       []string                      `json:"image"`
	Category    []Ref                         `json:"category"`
	SubCategory []Ref                         `json:"subCategory"`
	Unit        string                        `json:"unit"        validate:"nullable,max=50"`
	Stock       int                           `json:"stock"       validate:"gte=0"`
	Price       decimal.Decimal               `json:"price"       validate:"required,gte=0"`
	Discount    int                           `json:"discount"    validate:"gte=0,lte=100"`
	Description string                        `json:"description"`
	MoreDetails map[string]models.DetailValue `json:"more_details"`
	Publish     *bool                         `json:"publish"`
}

// ProductQuery is a catalogue listing request.
type ProductQuery struct {
	Search        string `json:"search"`
	CategoryID    uint   `json:"categoryId"`
	SubCategoryID uint   `json:"subCategoryId"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
}

// ProductPage is one page of a listing.
type ProductPage struct {
	Data []models.Product `json:"data"`
	orm.Pagination
}

// CatalogService manages categories and products. Reads are cached in Redis
// under the catalog: prefix and every write drops the whole prefix.
type CatalogService struct {
	catalog *repositories.CatalogRepository
	ttl     time.Duration
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		catalog: repositories.NewCatalogRepository(db),
		ttl:     config.CatalogCacheTTL(),
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := cache.DelPrefix(ctx, catalogPrefix); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "error", err)
	}
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(in.Name), Image: in.Image}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cache.Remember(ctx, catalogPrefix+"categories", s.ttl, func() ([]models.Category, error) {
		return s.catalog.Categories(ctx)
	})
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, in SubCategoryInput) (*models.SubCategory, error) {
	cats, err := s.categories(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	sub := &models.SubCategory{Name: strings.TrimSpace(in.Name), Image: in.Image, Categories: cats}
	if err := s.catalog.CreateSubCategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

func (s *CatalogService) SubCategories(ctx context.Context) ([]models.SubCategory, error) {
	return cache.Remember(ctx, catalogPrefix+"subcategories", s.ttl, func() ([]models.SubCategory, error) {
		return s.catalog.SubCategories(ctx)
	})
}

// categories resolves every ref or fails with ErrCategoryNotFound.
func (s *CatalogService) categories(ctx context.Context, refs []Ref) ([]models.Category, error) {
	ids := refIDs(refs)
	cats, err := s.catalog.CategoriesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(unique(ids)) {
		return nil, ErrCategoryNotFound
	}
	return cats, nil
}

func (s *CatalogService) subCategories(ctx context.Context, refs []Ref) ([]models.SubCategory, error) {
	ids := refIDs(refs)
	subs, err := s.catalog.SubCategoriesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(subs) != len(unique(ids)) {
		return nil, ErrCategoryNotFound
	}
	return subs, nil
}

func unique(ids []uint) map[uint]struct{} {
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{Publish: true}
	if err := s.fill(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// UpdateProduct replaces the product's fields and category links with in.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.catalog.ProductByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.catalog.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.catalog.DeleteProduct(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) fill(ctx context.Context, p *models.Product, in ProductInput) error {
	cats, err := s.categories(ctx, in.Category)
	if err != nil {
		return err
	}
	subs, err := s.subCategories(ctx, in.SubCategory)
	if err != nil {
		return err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Images = in.Image
	p.Categories = cats
	p.SubCategories = subs
	p.Unit = in.Unit
	p.Stock = in.Stock
	p.Price = in.Price
	p.Discount = in.Discount
	p.Description = in.Description
	p.MoreDetails = in.MoreDetails
	if in.Publish != nil {
		p.Publish = *in.Publish
	}
	return nil
}

func (s *CatalogService) Product(ctx context.Context, id uint) (*models.Product, error) {
	key := fmt.Sprintf("%sproduct:%d", catalogPrefix, id)
	p, err := cache.Remember(ctx, key, s.ttl, func() (*models.Product, error) {
		return s.catalog.ProductByID(ctx, id)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *CatalogService) Products(ctx context.Context, q ProductQuery) (ProductPage, error) {
	q.Page, q.Limit = orm.Normalize(q.Page, q.Limit)
	q.Search = strings.TrimSpace(q.Search)
	key := fmt.Sprintf("%sproducts:%d:%d:%d:%d:%s",
		catalogPrefix, q.CategoryID, q.SubCategoryID, q.Page, q.Limit, strings.ToLower(q.Search))

	return cache.Remember(ctx, key, s.ttl, func() (ProductPage, error) {
		items, page, err := s.catalog.ListProducts(ctx, repositories.ProductFilter{
			Search:        q.Search,
			CategoryID:    q.CategoryID,
			SubCategoryID: q.SubCategoryID,
			Page:          q.Page,
			Limit:         q.Limit,
		})
		if items == nil {
			items = []models.Product{}
		}
		return ProductPage{Data: items, Pagination: page}, err
	})
}

// FindOrCreateCategory resolves a category by name, creating it when absent.
func (s *CatalogService) FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c, err := s.catalog.CategoryByName(ctx, name)
	if !errors.Is(err, repositories.ErrNotFound) {
		return c, err
	}
	c = &models.Category{Name: strings.TrimSpace(name)}
	return c, s.catalog.CreateCategory(ctx, c)
}

// FindOrCreateSubCategory resolves a subcategory by name, creating it under
// parent when absent.
func (s *CatalogService) FindOrCreateSubCategory(ctx context.Context, name string, parent *models.Category) (*models.SubCategory, error) {
	sub, err := s.catalog.SubCategoryByName(ctx, name)
	if !errors.Is(err, repositories.ErrNotFound) {
		return sub, err
	}
	sub = &models.SubCategory{Name: strings.TrimSpace(name)}
	if parent != nil {
		sub.Categories = []models.Category{*parent}
	}
	return sub, s.catalog.CreateSubCategory(ctx, sub)
}

// CreateProducts inserts already-resolved products and invalidates once.
func (s *CatalogService) CreateProducts(ctx context.Context, products []*models.Product) (int, error) {
	n := 0
	for _, p := range products {
		if err := s.catalog.CreateProduct(ctx, p); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}
