package repository

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
)

// NotificationRepository persists per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// CreateMany inserts a batch in one statement, used for broadcasts.
	CreateMany(ctx context.Context, ns []*models.Notification) error
	// Exists reports whether the recipient already holds a notification of
	// the given type from the same actor about the same target.
	Exists(ctx context.Context, recipientID uint, actorID uint, typ models.NotificationType, target models.TargetRef) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewStorageFailureError("create notification", err)
	}
	return nil
}

func (r *notificationRepository) CreateMany(ctx context.Context, ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&ns).Error; err != nil {
		return models.NewStorageFailureError("create notifications", err)
	}
	return nil
}

func (r *notificationRepository) Exists(ctx context.Context, recipientID uint, actorID uint, typ models.NotificationType, target models.TargetRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND actor_id = ? AND type = ? AND target_type = ? AND target_id = ?",
			recipientID, actorID, typ, target.Type, target.ID).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageFailureError("check notification", err)
	}
	return count > 0, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, notFoundOr(err, "notification", id)
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("NOT is_read")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count notifications", err)
	}

	var ns []*models.Notification
	err := q.
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&ns).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list notifications", err)
	}
	return ns, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return models.NewStorageFailureError("mark notification read", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND NOT is_read", recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return 0, models.NewStorageFailureError("mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND NOT is_read", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStorageFailureError("count unread notifications", err)
	}
	return count, nil
}
