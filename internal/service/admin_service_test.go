package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
)

func TestAdminService_SetVisibility_Hide(t *testing.T) {
	memRepo := new(mockMemorialRepo)
	memRepo.On("SetVisibility", mock.Anything, "mem-1", domain.VisibilityHidden).Return(nil)

	svc := NewAdminService(memRepo, new(mockMemberRepo), nil)
	err := svc.SetVisibility(context.Background(), "mem-1", true, "admin-1")

	require.NoError(t, err)
	memRepo.AssertExpectations(t)
}

func TestAdminService_SetVisibility_Restore(t *testing.T) {
	memRepo := new(mockMemorialRepo)
	memRepo.On("SetVisibility", mock.Anything, "mem-1", domain.VisibilityNormal).Return(nil)

	svc := NewAdminService(memRepo, new(mockMemberRepo), nil)
	err := svc.SetVisibility(context.Background(), "mem-1", false, "admin-1")

	require.NoError(t, err)
	memRepo.AssertExpectations(t)
}

func TestAdminService_SetVisibility_MissingMemorial(t *testing.T) {
	memRepo := new(mockMemorialRepo)
	memRepo.On("SetVisibility", mock.Anything, "nope", domain.VisibilityHidden).
		Return(common.ErrMemorialNotFound)

	svc := NewAdminService(memRepo, new(mockMemberRepo), nil)
	err := svc.SetVisibility(context.Background(), "nope", true, "admin-1")

	assert.ErrorIs(t, err, common.ErrMemorialNotFound)
}

func TestAdminService_SetMemberAdmin_SyncsOwnerSnapshot(t *testing.T) {
	memberRepo := new(mockMemberRepo)
	memRepo := new(mockMemorialRepo)
	memberRepo.On("SetAdmin", mock.Anything, "u1", true).Return(nil)
	memRepo.On("SetOwnerAdmin", mock.Anything, "u1", true).Return(nil)

	svc := NewAdminService(memRepo, memberRepo, nil)
	err := svc.SetMemberAdmin(context.Background(), "u1", true, "admin-1")

	require.NoError(t, err)
	memberRepo.AssertExpectations(t)
	memRepo.AssertExpectations(t)
}

func TestAdminService_SetMemberAdmin_SnapshotFailureSurfaces(t *testing.T) {
	memberRepo := new(mockMemberRepo)
	memRepo := new(mockMemorialRepo)
	memberRepo.On("SetAdmin", mock.Anything, "u1", false).Return(nil)
	memRepo.On("SetOwnerAdmin", mock.Anything, "u1", false).Return(errors.New("db down"))

	svc := NewAdminService(memRepo, memberRepo, nil)
	err := svc.SetMemberAdmin(context.Background(), "u1", false, "admin-1")

	assert.Error(t, err)
}

func TestAdminService_SetMemberAdmin_UnknownMember(t *testing.T) {
	memberRepo := new(mockMemberRepo)
	memRepo := new(mockMemorialRepo)
	memberRepo.On("SetAdmin", mock.Anything, "ghost", true).Return(common.ErrUserNotFound)

	svc := NewAdminService(memRepo, memberRepo, nil)
	err := svc.SetMemberAdmin(context.Background(), "ghost", true, "admin-1")

	assert.ErrorIs(t, err, common.ErrUserNotFound)
	memRepo.AssertNotCalled(t, "SetOwnerAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_ListMemorials(t *testing.T) {
	memRepo := new(mockMemorialRepo)
	memRepo.On("ListAll", mock.Anything, 1, 20).Return([]*domain.Memorial{
		{ID: "m1", Name: "Ada Obi"},
		{ID: "m2", Name: "Chinedu Eze"},
	}, int64(2), nil)

	svc := NewAdminService(memRepo, new(mockMemberRepo), nil)
	// out-of-range paging falls back to defaults
	summaries, total, err := svc.ListMemorials(context.Background(), 0, 500)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, summaries, 2)
	assert.Equal(t, "m1", summaries[0].ID)
}
