package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
)

// TributeRepository persistence for tributes and stories
type TributeRepository interface {
	Create(ctx context.Context, t *domain.Tribute) error
	FindByID(ctx context.Context, id int64) (*domain.Tribute, error)
	ListByMemorial(ctx context.Context, memorialID string, approvedOnly bool, page, limit int) ([]*domain.Tribute, int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
}

type tributeRepository struct {
	db *gorm.DB
}

// NewTributeRepository creates a new TributeRepository
func NewTributeRepository(db *gorm.DB) TributeRepository {
	return &tributeRepository{db: db}
}

func (r *tributeRepository) Create(ctx context.Context, t *domain.Tribute) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tributeRepository) FindByID(ctx context.Context, id int64) (*domain.Tribute, error) {
	var t domain.Tribute
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrTributeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tributeRepository) ListByMemorial(ctx context.Context, memorialID string, approvedOnly bool, page, limit int) ([]*domain.Tribute, int64, error) {
	var tributes []*domain.Tribute
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Tribute{}).Where("memorial_id = ?", memorialID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tributes).Error
	return tributes, total, err
}

func (r *tributeRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Tribute{}).
		Where("id = ?", id).
		Update("approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrTributeNotFound
	}
	return nil
}

func (r *tributeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Tribute{}, id).Error
}
