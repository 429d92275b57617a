package service

import (
	"context"
	"time"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/repository"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
)

// TributeService business logic for tributes and stories
type TributeService interface {
	Create(ctx context.Context, memorialID string, req *domain.CreateTributeRequest, viewer domain.Viewer) (*domain.Tribute, error)
	List(ctx context.Context, memorialID string, viewer domain.Viewer, page, limit int) ([]*domain.Tribute, *common.Meta, error)
	Approve(ctx context.Context, memorialID string, tributeID int64, viewer domain.Viewer) error
	Remove(ctx context.Context, memorialID string, tributeID int64, viewer domain.Viewer) error
}

type tributeService struct {
	repo    repository.TributeRepository
	memRepo repository.MemorialRepository
	cache   pkgcache.Service
	now     func() time.Time
}

// NewTributeService creates a new TributeService
func NewTributeService(repo repository.TributeRepository, memRepo repository.MemorialRepository, cache pkgcache.Service) TributeService {
	return &tributeService{repo: repo, memRepo: memRepo, cache: cache, now: time.Now}
}

// viewableMemorial loads the memorial and verifies the viewer may see its
// page; tributes follow the page's access rules.
func (s *tributeService) viewableMemorial(ctx context.Context, memorialID string, viewer domain.Viewer) (*domain.Memorial, error) {
	m, err := s.memRepo.FindByID(ctx, memorialID)
	if err != nil {
		return nil, err
	}

	decision := domain.DecideAccess(m, viewer, s.now())
	switch decision.Status {
	case domain.AccessDeactivated:
		return nil, common.ErrMemorialDeactivated
	case domain.AccessRestricted:
		if decision.Reason == domain.ReasonExpired {
			return nil, common.ErrMemorialExpired
		}
		return nil, common.ErrMemorialPrivate
	}
	return m, nil
}

// Create leaves a tribute on a viewable memorial. Tributes start pending
// until the owner approves them.
func (s *tributeService) Create(ctx context.Context, memorialID string, req *domain.CreateTributeRequest, viewer domain.Viewer) (*domain.Tribute, error) {
	if _, err := s.viewableMemorial(ctx, memorialID, viewer); err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.TributeKindMessage
	}

	t := &domain.Tribute{
		MemorialID: memorialID,
		Kind:       kind,
		AuthorName: req.AuthorName,
		AuthorID:   viewer.ID,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tributes for a viewable memorial. Owners and admins see
// pending submissions too; everyone else sees approved tributes only.
func (s *tributeService) List(ctx context.Context, memorialID string, viewer domain.Viewer, page, limit int) ([]*domain.Tribute, *common.Meta, error) {
	m, err := s.viewableMemorial(ctx, memorialID, viewer)
	if err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	approvedOnly := !(viewer.IsAdmin || viewer.IsOwner(m))
	tributes, total, err := s.repo.ListByMemorial(ctx, memorialID, approvedOnly, page, limit)
	if err != nil {
		return nil, nil, err
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return tributes, meta, nil
}

// Approve publishes a pending tribute; owner or admin only
func (s *tributeService) Approve(ctx context.Context, memorialID string, tributeID int64, viewer domain.Viewer) error {
	if err := s.requireModerator(ctx, memorialID, viewer); err != nil {
		return err
	}
	t, err := s.repo.FindByID(ctx, tributeID)
	if err != nil {
		return err
	}
	if t.MemorialID != memorialID {
		return common.ErrTributeNotFound
	}
	if err := s.repo.SetApproved(ctx, tributeID, true); err != nil {
		return err
	}
	s.invalidate(ctx, memorialID)
	return nil
}

// Remove deletes a tribute; owner or admin only
func (s *tributeService) Remove(ctx context.Context, memorialID string, tributeID int64, viewer domain.Viewer) error {
	if err := s.requireModerator(ctx, memorialID, viewer); err != nil {
		return err
	}
	t, err := s.repo.FindByID(ctx, tributeID)
	if err != nil {
		return err
	}
	if t.MemorialID != memorialID {
		return common.ErrTributeNotFound
	}
	if err := s.repo.Delete(ctx, tributeID); err != nil {
		return err
	}
	s.invalidate(ctx, memorialID)
	return nil
}

func (s *tributeService) requireModerator(ctx context.Context, memorialID string, viewer domain.Viewer) error {
	m, err := s.memRepo.FindByID(ctx, memorialID)
	if err != nil {
		return err
	}
	if !viewer.IsAdmin && !viewer.IsOwner(m) {
		return common.ErrForbidden
	}
	return nil
}

func (s *tributeService) invalidate(ctx context.Context, memorialID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateMemorial(ctx, memorialID)
	}
}
