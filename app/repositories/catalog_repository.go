package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// CatalogRepository covers categories, subcategories and products.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

// ── Categories ───────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// CategoriesByID loads categories by id; unknown ids are ignored.
func (r *CatalogRepository) CategoriesByID(ctx context.Context, ids []uint) ([]models.Category, error) {
	var out []models.Category
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Find(&out, ids).Error
	return out, err
}

// CategoryByName finds a category case-insensitively.
func (r *CatalogRepository) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&c).Error
	return &c, translate(err)
}

// ── Subcategories ────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateSubCategory(ctx context.Context, s *models.SubCategory) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *CatalogRepository) SubCategories(ctx context.Context) ([]models.SubCategory, error) {
	var out []models.SubCategory
	err := r.db.WithContext(ctx).Preload("Categories").Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) SubCategoriesByID(ctx context.Context, ids []uint) ([]models.SubCategory, error) {
	var out []models.SubCategory
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Find(&out, ids).Error
	return out, err
}

func (r *CatalogRepository) SubCategoryByName(ctx context.Context, name string) (*models.SubCategory, error) {
	var s models.SubCategory
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&s).Error
	return &s, translate(err)
}

// ── Products ─────────────────────────────────────────────────────────────────

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search        string
	CategoryID    uint
	SubCategoryID uint
	Page, Limit   int
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// ProductByID loads a product with its categories.
func (r *CatalogRepository) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := withCategories(r.db.WithContext(ctx)).First(&p, id).Error
	return &p, translate(err)
}

// ProductsByID loads the given products keyed by id.
func (r *CatalogRepository) ProductsByID(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	out := make(map[uint]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := forUpdate(r.db.WithContext(ctx)).Find(&rows, ids).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// ListProducts returns one page of products, newest first.
func (r *CatalogRepository) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.CategoryID != 0 {
		q = q.Where("id IN (?)", r.db.Table("product_categories").
			Select("product_id").Where("category_id = ?", f.CategoryID))
	}
	if f.SubCategoryID != 0 {
		q = q.Where("id IN (?)", r.db.Table("product_sub_categories").
			Select("product_id").Where("sub_category_id = ?", f.SubCategoryID))
	}

	var out []models.Product
	p, err := orm.Paginate(q.Order("created_at desc, id desc"), f.Page, f.Limit, &out, withCategories)
	return out, p, err
}

func withCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories").Preload("SubCategories")
}

// SaveProduct updates scalar fields and replaces the category associations.
func (r *CatalogRepository) SaveProduct(ctx context.Context, p *models.Product) error {
	db := r.db.WithContext(ctx)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "SubCategories").Save(p).Error; err != nil {
			return translate(err)
		}
		if err := replace(tx.Model(p).Association("Categories"), p.Categories); err != nil {
			return err
		}
		return replace(tx.Model(p).Association("SubCategories"), p.SubCategories)
	})
}

func replace[T any](a *gorm.Association, values []T) error {
	if len(values) == 0 {
		return a.Clear()
	}
	return a.Replace(values)
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock removes qty from a product's stock. With clamp the stock
// floors at zero; without it a short stock returns ErrInsufficientStock.
func (r *CatalogRepository) DecrementStock(ctx context.Context, productID uint, qty int, clamp bool) error {
	db := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID)
	if clamp {
		return db.Update("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", qty, qty)).Error
	}
	res := db.Where("stock >= ?", qty).Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
