package service

import (
	"context"
	"errors"

	govalidator "github.com/go-playground/validator/v10"

	notiferrors "rentcar/internal/notifications/errors"
	"rentcar/internal/notifications/repository"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/model"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
	// Notify records an in-app notification for a user; used by other
	// services to announce lifecycle events.
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	validate *govalidator.Validate
	cfg      *config.Config
}

func NewNotificationService(repo repository.NotificationRepository, cfg *config.Config) NotificationService {
	return &notificationService{
		repo:     repo,
		validate: govalidator.New(),
		cfg:      cfg,
	}
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	if notification.Type == "" {
		notification.Type = model.NotificationInfo
	}

	if err := s.validate.Struct(notification); err != nil {
		s.cfg.Log.Warn("Notification validation failed", "error", err)
		return apperrors.Validation("Invalid notification data", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.cfg.Log.Error("Failed to create notification", "error", err)
		return apperrors.Internal("Failed to create notification", err)
	}
	return nil
}

func (s *notificationService) GetByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list notifications", "userId", userID, "error", err)
		return nil, apperrors.Internal("Error fetching notifications", err)
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, notiferrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Notification", id)
		}
		if errors.Is(err, notiferrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid notification ID format")
		}
		s.cfg.Log.Error("Failed to mark notification read", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update notification", err)
	}
	return notification, nil
}

func (s *notificationService) Notify(ctx context.Context, userID, title, message, notifType string) error {
	return s.Create(ctx, &model.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	})
}
