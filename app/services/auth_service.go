package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string `json:"accesstoken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return issue(u)
}

// Refresh exchanges a refresh token for a new access token. The role is
// re-read so a promotion takes effect without logging in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(u.ID, u.Role)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// EnsureAdmin promotes the account with this email to ADMIN, creating it
// first when it does not exist. created reports which happened.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (u *models.User, created bool, err error) {
	u, err = s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		if u, err = s.Register(ctx, in); err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	}
	if err := s.users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return nil, false, err
	}
	u.Role = models.RoleAdmin
	return u, created, nil
}

func issue(u *models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
