package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
)

// --- Mock MemorialRepository ---

type mockMemorialRepo struct {
	mock.Mock
	viewLogged chan string
}

func (m *mockMemorialRepo) Create(ctx context.Context, mem *domain.Memorial) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *mockMemorialRepo) FindByID(ctx context.Context, id string) (*domain.Memorial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memorial), args.Error(1)
}

func (m *mockMemorialRepo) Update(ctx context.Context, mem *domain.Memorial) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *mockMemorialRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Memorial, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Memorial), args.Error(1)
}

func (m *mockMemorialRepo) ListAll(ctx context.Context, page, limit int) ([]*domain.Memorial, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Memorial), args.Get(1).(int64), args.Error(2)
}

func (m *mockMemorialRepo) IncrementView(ctx context.Context, id string) error {
	err := m.Called(ctx, id).Error(0)
	if m.viewLogged != nil {
		m.viewLogged <- id
	}
	return err
}

func (m *mockMemorialRepo) SetVisibility(ctx context.Context, id string, v domain.Visibility) error {
	return m.Called(ctx, id, v).Error(0)
}

func (m *mockMemorialRepo) SetOwnerAdmin(ctx context.Context, ownerID string, isAdmin bool) error {
	return m.Called(ctx, ownerID, isAdmin).Error(0)
}

func (m *mockMemorialRepo) UpdatePlan(ctx context.Context, id string, plan domain.Plan, expiry string) error {
	return m.Called(ctx, id, plan, expiry).Error(0)
}

// --- Mock PhotoRepository ---

type mockPhotoRepo struct {
	mock.Mock
}

func (m *mockPhotoRepo) Create(ctx context.Context, p *domain.Photo) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPhotoRepo) ListByMemorial(ctx context.Context, memorialID string) ([]*domain.Photo, error) {
	args := m.Called(ctx, memorialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Photo), args.Error(1)
}

func (m *mockPhotoRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Tests ---

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestMemorialService(repo *mockMemorialRepo, photos *mockPhotoRepo) *memorialService {
	svc := NewMemorialService(repo, photos, nil).(*memorialService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestViewPage_OwnerGrantedAndViewLogged(t *testing.T) {
	repo := &mockMemorialRepo{viewLogged: make(chan string, 1)}
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Name: "Ada", Plan: domain.PlanSpirit, Visibility: domain.VisibilityNormal}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)
	repo.On("IncrementView", mock.Anything, "mem-1").Return(nil)
	photos.On("ListByMemorial", mock.Anything, "mem-1").Return([]*domain.Photo{}, nil)

	page, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", page.Name)

	select {
	case id := <-repo.viewLogged:
		assert.Equal(t, "mem-1", id)
	case <-time.After(time.Second):
		t.Fatal("expected view to be logged")
	}
}

func TestViewPage_NotFound(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	repo.On("FindByID", mock.Anything, "nope").Return(nil, common.ErrMemorialNotFound)

	_, err := svc.ViewPage(context.Background(), "nope", domain.Viewer{})
	assert.ErrorIs(t, err, common.ErrMemorialNotFound)
}

func TestViewPage_HiddenBlocksStranger(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Visibility: domain.VisibilityHidden, Plan: domain.PlanEternal, PlanExpiry: domain.ExpiryNever}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)

	_, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{ID: "other"})
	assert.ErrorIs(t, err, common.ErrMemorialDeactivated)
	repo.AssertNotCalled(t, "IncrementView", mock.Anything, mock.Anything)
}

func TestViewPage_HiddenPageViewByAdminNotLogged(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Visibility: domain.VisibilityHidden, Plan: domain.PlanSpirit}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)
	photos.On("ListByMemorial", mock.Anything, "mem-1").Return([]*domain.Photo{}, nil)

	page, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{ID: "mod", IsAdmin: true})
	require.NoError(t, err)
	assert.NotNil(t, page)

	// hidden page views never count, even for admins
	repo.AssertNotCalled(t, "IncrementView", mock.Anything, mock.Anything)
}

func TestViewPage_PrivateForStranger(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Visibility: domain.VisibilityNormal, Plan: domain.PlanSpirit}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)

	_, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{})
	assert.ErrorIs(t, err, common.ErrMemorialPrivate)
}

func TestViewPage_ExpiredForStranger(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Visibility: domain.VisibilityNormal, Plan: domain.PlanLegacy, PlanExpiry: "2024-01-01"}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)

	_, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{})
	assert.ErrorIs(t, err, common.ErrMemorialExpired)
}

func TestViewPage_AnonymousGrantedOnActivePlan(t *testing.T) {
	repo := &mockMemorialRepo{viewLogged: make(chan string, 1)}
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Name: "Ada", Visibility: domain.VisibilityNormal, Plan: domain.PlanEternal, PlanExpiry: domain.ExpiryNever}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)
	repo.On("IncrementView", mock.Anything, "mem-1").Return(nil)
	photos.On("ListByMemorial", mock.Anything, "mem-1").Return([]*domain.Photo{{ID: 1, MemorialID: "mem-1"}}, nil)

	page, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{})
	require.NoError(t, err)
	assert.Len(t, page.Photos, 1)

	select {
	case <-repo.viewLogged:
	case <-time.After(time.Second):
		t.Fatal("expected view to be logged")
	}
}

func TestViewPage_ViewLogFailureDoesNotFailRender(t *testing.T) {
	repo := &mockMemorialRepo{viewLogged: make(chan string, 1)}
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Name: "Ada", Visibility: domain.VisibilityNormal, Plan: domain.PlanEssence}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)
	repo.On("IncrementView", mock.Anything, "mem-1").Return(assert.AnError)
	photos.On("ListByMemorial", mock.Anything, "mem-1").Return([]*domain.Photo{}, nil)

	page, err := svc.ViewPage(context.Background(), "mem-1", domain.Viewer{})
	require.NoError(t, err)
	assert.NotNil(t, page)
	<-repo.viewLogged
}

func TestCreate_DefaultsToFreeTier(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	var created *domain.Memorial
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Memorial")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Memorial)
		}).
		Return(nil)

	owner := &domain.Member{ID: "u1", IsAdmin: false}
	resp, err := svc.Create(context.Background(), &domain.CreateMemorialRequest{Name: "Ada Lovelace", DiedAt: "1852-11-27"}, owner)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanSpirit, created.Plan)
	assert.Equal(t, domain.VisibilityNormal, created.Visibility)
	assert.Empty(t, created.PlanExpiry)
	assert.False(t, created.OwnerAdmin)
	assert.NotEmpty(t, resp.ID)
	assert.NotNil(t, created.DiedAt)
}

func TestCreate_SnapshotsOwnerAdmin(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	var created *domain.Memorial
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Memorial")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Memorial)
		}).
		Return(nil)

	owner := &domain.Member{ID: "staff-1", IsAdmin: true}
	_, err := svc.Create(context.Background(), &domain.CreateMemorialRequest{Name: "Test"}, owner)
	require.NoError(t, err)
	assert.True(t, created.OwnerAdmin)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	m := &domain.Memorial{ID: "mem-1", OwnerID: "u1", Name: "Ada"}
	repo.On("FindByID", mock.Anything, "mem-1").Return(m, nil)

	name := "New Name"
	err := svc.Update(context.Background(), "mem-1", &domain.UpdateMemorialRequest{Name: &name}, "intruder")
	assert.ErrorIs(t, err, common.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListMine(t *testing.T) {
	repo := new(mockMemorialRepo)
	photos := new(mockPhotoRepo)
	svc := newTestMemorialService(repo, photos)

	last := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	memorials := []*domain.Memorial{
		{ID: "mem-1", Name: "A", Plan: domain.PlanLegacy, ViewCount: 42, LastVisited: &last},
		{ID: "mem-2", Name: "B", Plan: domain.PlanSpirit},
	}
	repo.On("ListByOwner", mock.Anything, "u1").Return(memorials, nil)

	summaries, err := svc.ListMine(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.EqualValues(t, 42, summaries[0].ViewCount)
	assert.Equal(t, &last, summaries[0].LastVisited)
}
