package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/repository"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
	pkglogger "github.com/lumora/memoria-backend/pkg/logger"
)

// MemorialPage is a viewable memorial with its photos and approved tributes
type MemorialPage struct {
	*domain.MemorialResponse
	Photos []*domain.Photo `json:"photos"`
}

// MemorialService business logic for memorial pages
type MemorialService interface {
	Create(ctx context.Context, req *domain.CreateMemorialRequest, owner *domain.Member) (*domain.MemorialResponse, error)
	ViewPage(ctx context.Context, id string, viewer domain.Viewer) (*MemorialPage, error)
	Update(ctx context.Context, id string, req *domain.UpdateMemorialRequest, userID string) error
	ListMine(ctx context.Context, ownerID string) ([]*domain.MemorialSummary, error)
}

type memorialService struct {
	repo      repository.MemorialRepository
	photoRepo repository.PhotoRepository
	cache     pkgcache.Service
	now       func() time.Time
}

// NewMemorialService creates a new MemorialService. cache may be nil when
// Redis is unavailable.
func NewMemorialService(repo repository.MemorialRepository, photoRepo repository.PhotoRepository, cache pkgcache.Service) MemorialService {
	return &memorialService{
		repo:      repo,
		photoRepo: photoRepo,
		cache:     cache,
		now:       time.Now,
	}
}

// Create registers a new memorial on the free tier
func (s *memorialService) Create(ctx context.Context, req *domain.CreateMemorialRequest, owner *domain.Member) (*domain.MemorialResponse, error) {
	m := &domain.Memorial{
		ID:         uuid.New().String(),
		OwnerID:    owner.ID,
		OwnerAdmin: owner.IsAdmin,
		Name:       req.Name,
		Biography:  req.Biography,
		Visibility: domain.VisibilityNormal,
		Plan:       domain.PlanSpirit,
	}
	if t, ok := parseDate(req.BornAt); ok {
		m.BornAt = &t
	}
	if t, ok := parseDate(req.DiedAt); ok {
		m.DiedAt = &t
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m.ToResponse(), nil
}

// ViewPage loads a memorial, evaluates access for the viewer, and on a
// granted decision assembles the page payload. A view is logged only when
// access is granted and the page is not hidden; logging runs in the
// background and never fails the render.
func (s *memorialService) ViewPage(ctx context.Context, id string, viewer domain.Viewer) (*MemorialPage, error) {
	m, err := s.repo.FindByID(ctx, id)
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

	if m.Visibility != domain.VisibilityHidden {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.repo.IncrementView(bg, id); err != nil {
				pkglogger.GetLogger().Warn().
					Str("memorial_id", id).
					Err(err).
					Msg("view log failed")
			}
		}()
	}

	return s.assemblePage(ctx, m)
}

// assemblePage builds the page payload, with the photo list cached per
// memorial. The access decision above always runs against a fresh record;
// only the assembled content is cached.
func (s *memorialService) assemblePage(ctx context.Context, m *domain.Memorial) (*MemorialPage, error) {
	page := &MemorialPage{MemorialResponse: m.ToResponse()}

	if s.cache != nil {
		var photos []*domain.Photo
		if err := s.cache.GetMemorial(ctx, m.ID, &photos); err == nil {
			page.Photos = photos
			return page, nil
		}
	}

	photos, err := s.photoRepo.ListByMemorial(ctx, m.ID)
	if err != nil {
		// a broken photo listing should not take down the page
		pkglogger.GetLogger().Warn().Str("memorial_id", m.ID).Err(err).Msg("photo list failed")
		photos = nil
	}
	page.Photos = photos

	if s.cache != nil && photos != nil {
		if err := s.cache.SetMemorial(ctx, m.ID, photos); err != nil {
			pkglogger.GetLogger().Warn().Str("memorial_id", m.ID).Err(err).Msg("cache set failed")
		}
	}
	return page, nil
}

// Update edits content fields. Only the owner may edit; plan and visibility
// are not touched here.
func (s *memorialService) Update(ctx context.Context, id string, req *domain.UpdateMemorialRequest, userID string) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.OwnerID != userID {
		return common.ErrForbidden
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Biography != nil {
		m.Biography = *req.Biography
	}
	if req.BornAt != nil {
		if t, ok := parseDate(*req.BornAt); ok {
			m.BornAt = &t
		}
	}
	if req.DiedAt != nil {
		if t, ok := parseDate(*req.DiedAt); ok {
			m.DiedAt = &t
		}
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ListMine returns dashboard summaries for an owner's memorials
func (s *memorialService) ListMine(ctx context.Context, ownerID string) ([]*domain.MemorialSummary, error) {
	memorials, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.MemorialSummary, len(memorials))
	for i, m := range memorials {
		summaries[i] = m.ToSummary()
	}
	return summaries, nil
}

func (s *memorialService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMemorial(ctx, id); err != nil {
		pkglogger.GetLogger().Warn().Str("memorial_id", id).Err(err).Msg("cache invalidate failed")
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
