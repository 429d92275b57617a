package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/repository"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
	"github.com/lumora/memoria-backend/pkg/storage"
)

// allowed photo content types
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

const maxPhotoSize = 10 << 20 // 10 MiB

// MediaService handles photo uploads for memorials
type MediaService interface {
	UploadPhoto(ctx context.Context, memorialID, userID, filename, contentType string, size int64, body io.Reader, caption string) (*domain.Photo, error)
	ListPhotos(ctx context.Context, memorialID string) ([]*domain.Photo, error)
	DeletePhoto(ctx context.Context, memorialID string, photoID int64, userID string, isAdmin bool) error
}

type mediaService struct {
	photoRepo repository.PhotoRepository
	memRepo   repository.MemorialRepository
	s3        *storage.S3Client
	cache     pkgcache.Service
}

// NewMediaService creates a new MediaService. s3 may be nil when storage is
// not configured; uploads then fail with a clear error.
func NewMediaService(photoRepo repository.PhotoRepository, memRepo repository.MemorialRepository, s3 *storage.S3Client, cache pkgcache.Service) MediaService {
	return &mediaService{photoRepo: photoRepo, memRepo: memRepo, s3: s3, cache: cache}
}

// UploadPhoto stores a photo for a memorial; owner only
func (s *mediaService) UploadPhoto(ctx context.Context, memorialID, userID, filename, contentType string, size int64, body io.Reader, caption string) (*domain.Photo, error) {
	m, err := s.memRepo.FindByID(ctx, memorialID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != userID {
		return nil, common.ErrForbidden
	}

	if s.s3 == nil {
		return nil, fmt.Errorf("photo storage not configured")
	}
	if !allowedPhotoTypes[strings.ToLower(contentType)] {
		return nil, fmt.Errorf("%w: unsupported content type %s", common.ErrInvalidInput, contentType)
	}
	if size > maxPhotoSize {
		return nil, fmt.Errorf("%w: file too large", common.ErrInvalidInput)
	}

	key := storage.GenerateKey(memorialID, filename)
	result, err := s.s3.Upload(ctx, key, body, contentType, size)
	if err != nil {
		return nil, err
	}

	photo := &domain.Photo{
		MemorialID: memorialID,
		Key:        result.Key,
		URL:        s.s3.GetCDNURL(result.Key),
		Caption:    caption,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMemorial(ctx, memorialID)
	}
	return photo, nil
}

// ListPhotos returns all photos of a memorial
func (s *mediaService) ListPhotos(ctx context.Context, memorialID string) ([]*domain.Photo, error) {
	return s.photoRepo.ListByMemorial(ctx, memorialID)
}

// DeletePhoto removes a photo; owner or admin only
func (s *mediaService) DeletePhoto(ctx context.Context, memorialID string, photoID int64, userID string, isAdmin bool) error {
	m, err := s.memRepo.FindByID(ctx, memorialID)
	if err != nil {
		return err
	}
	if !isAdmin && m.OwnerID != userID {
		return common.ErrForbidden
	}

	photos, err := s.photoRepo.ListByMemorial(ctx, memorialID)
	if err != nil {
		return err
	}
	for _, p := range photos {
		if p.ID == photoID {
			if s.s3 != nil {
				if err := s.s3.Delete(ctx, p.Key); err != nil {
					return err
				}
			}
			if err := s.photoRepo.Delete(ctx, photoID); err != nil {
				return err
			}
			if s.cache != nil {
				_ = s.cache.InvalidateMemorial(ctx, memorialID)
			}
			return nil
		}
	}
	return common.ErrNotFound
}
