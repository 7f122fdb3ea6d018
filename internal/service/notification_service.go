package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// NotificationService serves a user's own notification inbox.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List pages the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, perPage int) ([]*models.Notification, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	ns, total, err := repository.NewNotificationRepository(s.db).ListByRecipient(ctx, userID, unreadOnly, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return ns, models.NewPageInfo(p.Page, p.PerPage, total), nil
}

// UnreadCount returns how many notifications the user has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return repository.NewNotificationRepository(s.db).UnreadCount(ctx, userID)
}

// MarkRead marks one notification; only its recipient may do so. Reading is
// never undone.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	repo := repository.NewNotificationRepository(s.db)
	n, err := repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return models.NewForbiddenError("not your notification")
	}
	return repo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks the user's whole inbox and reports how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return repository.NewNotificationRepository(s.db).MarkAllRead(ctx, userID)
}

// Activities pages a user's public action log, newest first.
func (s *NotificationService) Activities(ctx context.Context, userID uint, page, perPage int) ([]*models.Activity, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	as, total, err := repository.NewActivityRepository(s.db).ListByActor(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return as, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
