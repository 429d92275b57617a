package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/domain"
)

// PhotoRepository persistence for memorial photos
type PhotoRepository interface {
	Create(ctx context.Context, p *domain.Photo) error
	ListByMemorial(ctx context.Context, memorialID string) ([]*domain.Photo, error)
	Delete(ctx context.Context, id int64) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, p *domain.Photo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *photoRepository) ListByMemorial(ctx context.Context, memorialID string) ([]*domain.Photo, error) {
	var photos []*domain.Photo
	err := r.db.WithContext(ctx).
		Where("memorial_id = ?", memorialID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Photo{}, id).Error
}
