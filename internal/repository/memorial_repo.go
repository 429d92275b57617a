package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
)

// MemorialRepository persistence for memorial records
type MemorialRepository interface {
	Create(ctx context.Context, m *domain.Memorial) error
	FindByID(ctx context.Context, id string) (*domain.Memorial, error)
	Update(ctx context.Context, m *domain.Memorial) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Memorial, error)
	ListAll(ctx context.Context, page, limit int) ([]*domain.Memorial, int64, error)
	IncrementView(ctx context.Context, id string) error
	SetVisibility(ctx context.Context, id string, v domain.Visibility) error
	SetOwnerAdmin(ctx context.Context, ownerID string, isAdmin bool) error
	UpdatePlan(ctx context.Context, id string, plan domain.Plan, expiry string) error
}

type memorialRepository struct {
	db *gorm.DB
}

// NewMemorialRepository creates a new MemorialRepository
func NewMemorialRepository(db *gorm.DB) MemorialRepository {
	return &memorialRepository{db: db}
}

func (r *memorialRepository) Create(ctx context.Context, m *domain.Memorial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memorialRepository) FindByID(ctx context.Context, id string) (*domain.Memorial, error) {
	var m domain.Memorial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemorialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *memorialRepository) Update(ctx context.Context, m *domain.Memorial) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *memorialRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Memorial, error) {
	var memorials []*domain.Memorial
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&memorials).Error
	return memorials, err
}

func (r *memorialRepository) ListAll(ctx context.Context, page, limit int) ([]*domain.Memorial, int64, error) {
	var memorials []*domain.Memorial
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Memorial{})
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&memorials).Error
	return memorials, total, err
}

// IncrementView bumps the view counter with a single atomic UPDATE so
// concurrent page views never lose counts.
func (r *memorialRepository) IncrementView(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.Memorial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":   gorm.Expr("view_count + 1"),
			"last_visited": now,
		}).Error
}

func (r *memorialRepository) SetVisibility(ctx context.Context, id string, v domain.Visibility) error {
	result := r.db.WithContext(ctx).Model(&domain.Memorial{}).
		Where("id = ?", id).
		Update("visibility", v)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrMemorialNotFound
	}
	return nil
}

// SetOwnerAdmin syncs the denormalized owner-admin flag on all memorials of
// an owner whose account status changed.
func (r *memorialRepository) SetOwnerAdmin(ctx context.Context, ownerID string, isAdmin bool) error {
	return r.db.WithContext(ctx).Model(&domain.Memorial{}).
		Where("owner_id = ?", ownerID).
		Update("owner_admin", isAdmin).Error
}

func (r *memorialRepository) UpdatePlan(ctx context.Context, id string, plan domain.Plan, expiry string) error {
	result := r.db.WithContext(ctx).Model(&domain.Memorial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"plan":        plan,
			"plan_expiry": expiry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrMemorialNotFound
	}
	return nil
}
