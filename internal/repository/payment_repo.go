package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/domain"
)

// PaymentRepository persistence for payment transactions
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	FindByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error)
	MarkApplied(ctx context.Context, reference string) error
	MarkFailed(ctx context.Context, reference, reason string) error
	ListByMemorial(ctx context.Context, memorialID string) ([]*domain.PaymentTransaction, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByReference returns nil, nil when the reference has never been seen.
func (r *paymentRepository) FindByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	var tx domain.PaymentTransaction
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *paymentRepository) MarkApplied(ctx context.Context, reference string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.PaymentTransaction{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"status":     domain.PaymentStatusApplied,
			"applied_at": now,
		}).Error
}

func (r *paymentRepository) MarkFailed(ctx context.Context, reference, reason string) error {
	return r.db.WithContext(ctx).Model(&domain.PaymentTransaction{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"status":      domain.PaymentStatusFailed,
			"fail_reason": reason,
		}).Error
}

func (r *paymentRepository) ListByMemorial(ctx context.Context, memorialID string) ([]*domain.PaymentTransaction, error) {
	var txs []*domain.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("memorial_id = ?", memorialID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}
