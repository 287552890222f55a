package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	auditSvc AuditService
}

func NewUserService(userRepo repository.UserRepository, auditSvc AuditService) UserService {
	return &userService{
		userRepo: userRepo,
		auditSvc: auditSvc,
	}
}

func (s *userService) Create(ctx context.Context, actorID int32, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, "users", user.ID, domain.AuditActionCreate, actorID)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Update(ctx context.Context, actorID int32, user *domain.User, newPassword string) error {
	current, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	user.PasswordHash = current.PasswordHash
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, "users", user.ID, domain.AuditActionUpdate, actorID)
	return nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}
