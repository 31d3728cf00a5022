package service

import (
	"context"
	"io"
	"testing"

	notiferrors "rentcar/internal/notifications/errors"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

const testUserID = "64f1a2b3c4d5e6f7a8b9c0d1"

type mockNotificationRepo struct {
	createFn     func(ctx context.Context, notification *model.Notification) error
	findByUserFn func(ctx context.Context, userID string) ([]*model.Notification, error)
	markReadFn   func(ctx context.Context, id string) (*model.Notification, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return m.createFn(ctx, n)
}

func (m *mockNotificationRepo) FindByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return m.findByUserFn(ctx, userID)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	return m.markReadFn(ctx, id)
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
}

func TestNotifyDefaultsType(t *testing.T) {
	var stored *model.Notification
	repo := &mockNotificationRepo{
		createFn: func(_ context.Context, n *model.Notification) error {
			stored = n
			return nil
		},
	}
	svc := NewNotificationService(repo, testConfig())

	if err := svc.Notify(context.Background(), testUserID, "Booking received", "Your booking is pending.", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Type != model.NotificationInfo {
		t.Errorf("expected default type info, got %q", stored.Type)
	}
}

func TestCreateNotificationValidation(t *testing.T) {
	tests := []struct {
		name         string
		notification *model.Notification
	}{
		{"missing user", &model.Notification{Title: "t", Message: "m"}},
		{"missing title", &model.Notification{UserID: testUserID, Message: "m"}},
		{"unknown type", &model.Notification{UserID: testUserID, Title: "t", Message: "m", Type: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNotificationService(&mockNotificationRepo{}, testConfig())
			err := svc.Create(context.Background(), tt.notification)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if apperrors.AsAppError(err).HTTPStatus != 400 {
				t.Errorf("expected 400, got %d", apperrors.AsAppError(err).HTTPStatus)
			}
		})
	}
}

func TestGetByUserEmptyList(t *testing.T) {
	repo := &mockNotificationRepo{
		findByUserFn: func(_ context.Context, _ string) ([]*model.Notification, error) {
			return nil, nil
		},
	}
	svc := NewNotificationService(repo, testConfig())

	notifications, err := svc.GetByUser(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifications == nil {
		t.Error("an empty inbox must serialize as [], not null")
	}
}

func TestMarkReadNotFound(t *testing.T) {
	repo := &mockNotificationRepo{
		markReadFn: func(_ context.Context, _ string) (*model.Notification, error) {
			return nil, notiferrors.ErrNotFound
		},
	}
	svc := NewNotificationService(repo, testConfig())

	_, err := svc.MarkRead(context.Background(), "64f1a2b3c4d5e6f7a8b9c0ff")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if apperrors.AsAppError(err).HTTPStatus != 404 {
		t.Errorf("expected 404, got %d", apperrors.AsAppError(err).HTTPStatus)
	}
}
