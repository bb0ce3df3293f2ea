package service

import (
	"context"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Notifications().List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.Notifications().MarkAsRead(ctx, notificationID, userID)
}
