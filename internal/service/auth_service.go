package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/repository"
	"github.com/lumora/memoria-backend/pkg/jwt"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse login response
type LoginResponse struct {
	User         *domain.MemberResponse `json:"user"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*domain.MemberResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	memberRepo repository.MemberRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(memberRepo repository.MemberRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		memberRepo: memberRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new member account
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*domain.MemberResponse, error) {
	exists, err := s.memberRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member.ToResponse(), nil
}

// Login authenticates a member and returns tokens
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	member, err := s.memberRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(member.ID, member.Name, member.IsAdmin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(member.ID)
	if err != nil {
		return nil, err
	}

	// login time is best-effort, never blocks the response
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.memberRepo.UpdateLoginTime(bg, member.ID)
	}()

	return &LoginResponse{
		User:         member.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	member, err := s.memberRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(member.ID, member.Name, member.IsAdmin)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtManager.GenerateRefreshToken(member.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}
