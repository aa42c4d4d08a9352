package services

import (
	"context"

	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services/dto"
)

type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   models.UserRole(req.Role),
		Status: models.UserStatusActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.FindByID(id)
}
