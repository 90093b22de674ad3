package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) WithTx(tx *gorm.DB) *AddressRepository {
	return &AddressRepository{db: tx}
}

func (r *AddressRepository) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Active returns the user's enabled addresses, newest first.
func (r *AddressRepository) Active(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, true).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// FindActive returns address id only if it belongs to userID and is enabled.
func (r *AddressRepository) FindActive(ctx context.Context, userID, id uint) (*models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, true).
		First(&a).Error
	return &a, translate(err)
}

// Update writes the given columns on the user's address.
func (r *AddressRepository) Update(ctx context.Context, userID, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, true).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Disable soft-deletes the user's address by clearing its status.
func (r *AddressRepository) Disable(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, true).
		Update("status", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
