package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) FindByIntent(ctx context.Context, intentID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Where("intent_id = ?", intentID).First(&p).Error
	return &p, translate(err)
}

// MarkPaid atomically moves a PENDING payment to PAID. It reports false
// when no PENDING row matched, i.e. the payment is missing or was already
// processed by an earlier delivery.
func (r *PaymentRepository) MarkPaid(ctx context.Context, intentID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("intent_id = ? AND status = ?", intentID, models.PaymentPending).
		Update("status", models.PaymentPaid)
	return res.RowsAffected == 1, res.Error
}
