package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// CreateBatch inserts all orders in one statement.
func (r *OrderRepository) CreateBatch(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit("Address").Create(&orders).Error)
}

// ForUser returns the user's orders newest first, with addresses populated.
func (r *OrderRepository) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Address").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// ByPaymentID returns orders recorded against a provider payment id.
func (r *OrderRepository) ByPaymentID(ctx context.Context, paymentID string) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("id").Find(&out).Error
	return out, err
}

// Recent returns the latest orders across all users (admin).
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, err
}
