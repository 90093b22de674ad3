package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// CartRepository persists CartItem rows. Every query is scoped to a user.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// Items returns the user's cart lines with products populated, oldest first.
func (r *CartRepository) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var out []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// FindByProduct returns the user's line for productID.
func (r *CartRepository) FindByProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	return &item, translate(err)
}

func (r *CartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// Increment adds delta to an existing line's quantity.
func (r *CartRepository) Increment(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// SetQuantity updates the user's line id to qty.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user's line id.
func (r *CartRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes every line of the user's cart, which is also the user's
// shopping-cart reference list.
func (r *CartRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
