package service

import (
	"context"

	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/repository"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
	pkglogger "github.com/lumora/memoria-backend/pkg/logger"
)

// AdminService moderation actions, reachable only behind the admin middleware
type AdminService interface {
	SetVisibility(ctx context.Context, memorialID string, hidden bool, adminID string) error
	SetMemberAdmin(ctx context.Context, memberID string, isAdmin bool, adminID string) error
	ListMemorials(ctx context.Context, page, limit int) ([]*domain.MemorialSummary, int64, error)
}

type adminService struct {
	memRepo    repository.MemorialRepository
	memberRepo repository.MemberRepository
	cache      pkgcache.Service
}

// NewAdminService creates a new AdminService
func NewAdminService(memRepo repository.MemorialRepository, memberRepo repository.MemberRepository, cache pkgcache.Service) AdminService {
	return &adminService{memRepo: memRepo, memberRepo: memberRepo, cache: cache}
}

// SetVisibility hides or restores a memorial page
func (s *adminService) SetVisibility(ctx context.Context, memorialID string, hidden bool, adminID string) error {
	v := domain.VisibilityNormal
	if hidden {
		v = domain.VisibilityHidden
	}
	if err := s.memRepo.SetVisibility(ctx, memorialID, v); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateMemorial(ctx, memorialID)
	}

	pkglogger.GetLogger().Info().
		Str("memorial_id", memorialID).
		Str("visibility", string(v)).
		Str("admin_id", adminID).
		Msg("memorial visibility changed")
	return nil
}

// SetMemberAdmin grants or revokes a member's admin flag and keeps the
// denormalized owner-admin snapshot on their memorials in sync.
func (s *adminService) SetMemberAdmin(ctx context.Context, memberID string, isAdmin bool, adminID string) error {
	if err := s.memberRepo.SetAdmin(ctx, memberID, isAdmin); err != nil {
		return err
	}
	if err := s.memRepo.SetOwnerAdmin(ctx, memberID, isAdmin); err != nil {
		// the account flag changed but the snapshot did not; log loudly
		pkglogger.GetLogger().Error().
			Str("member_id", memberID).
			Err(err).
			Msg("owner admin snapshot out of sync")
		return err
	}

	pkglogger.GetLogger().Info().
		Str("member_id", memberID).
		Bool("is_admin", isAdmin).
		Str("admin_id", adminID).
		Msg("member admin status changed")
	return nil
}

// ListMemorials pages through all memorials for the moderation dashboard
func (s *adminService) ListMemorials(ctx context.Context, page, limit int) ([]*domain.MemorialSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	memorials, total, err := s.memRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*domain.MemorialSummary, len(memorials))
	for i, m := range memorials {
		summaries[i] = m.ToSummary()
	}
	return summaries, total, nil
}
