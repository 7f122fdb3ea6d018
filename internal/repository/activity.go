package repository

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
)

// ActivityRepository persists the append-only action log.
type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByActor(ctx context.Context, actorID uint, limit, offset int) ([]*models.Activity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return models.NewStorageFailureError("create activity", err)
	}
	return nil
}

func (r *activityRepository) ListByActor(ctx context.Context, actorID uint, limit, offset int) ([]*models.Activity, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("user_id = ?", actorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count activities", err)
	}

	var as []*models.Activity
	err := q.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&as).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list activities", err)
	}
	return as, total, nil
}
