package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
)

// MemberRepository persistence for member accounts
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	UpdateLoginTime(ctx context.Context, id string) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	var m domain.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	var m domain.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

func (r *memberRepository) UpdateLoginTime(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}
