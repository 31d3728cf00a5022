package service

import (
	"context"
	"errors"

	userserrors "rentcar/internal/users/errors"
	"rentcar/internal/users/repository"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/model"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Error fetching users", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id string, status string) (*model.User, error) {
	if status != model.UserActive && status != model.UserSuspended {
		return nil, apperrors.Validation("Invalid status", map[string]any{"status": status})
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, s.translateLookupError(err, id)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	s.cfg.Log.Info("User status updated", "id", id, "status", status)
	return user, nil
}

func (s *userService) translateLookupError(err error, id string) error {
	if errors.Is(err, userserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("User", id)
	}
	if errors.Is(err, userserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid user ID format")
	}
	s.cfg.Log.Error("Failed to retrieve user", "id", id, "error", err)
	return apperrors.Internal("Error fetching user", err)
}
