package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
	"microfinance-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", nil, domain.ErrUserInactive
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", security.ErrWrongTokenType
	}

	// Re-read the user so a deactivated account cannot keep minting access
	// tokens from an old refresh token.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", domain.ErrUserInactive
	}

	return s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
}
