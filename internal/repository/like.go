package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gather/internal/models"
)

// LikeRepository persists like edges between users and likeable targets.
type LikeRepository interface {
	// Insert adds the like if it does not already exist. It reports
	// whether a new row was actually created.
	Insert(ctx context.Context, userID uint, target models.TargetRef) (bool, error)
	// Delete removes the like and reports whether a row existed.
	Delete(ctx context.Context, userID uint, target models.TargetRef) (bool, error)
	Exists(ctx context.Context, userID uint, target models.TargetRef) (bool, error)
	CountByTarget(ctx context.Context, target models.TargetRef) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Insert(ctx context.Context, userID uint, target models.TargetRef) (bool, error) {
	like := models.Like{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		return false, models.NewStorageFailureError("create like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID uint, target models.TargetRef) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewStorageFailureError("delete like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID uint, target models.TargetRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageFailureError("check like", err)
	}
	return count > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, target models.TargetRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStorageFailureError("count likes", err)
	}
	return count, nil
}
