package repository

import (
	"context"

	"gather/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines persistence operations for gallery photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint) (*models.Photo, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, int64, error)
	ListForFeed(ctx context.Context, ownerIDs []uint, limit int) ([]*models.Photo, error)
	CountForFeed(ctx context.Context, ownerIDs []uint) (int64, error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository returns a new PhotoRepository implementation.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func applyPhotoCounts(db *gorm.DB) *gorm.DB {
	return db.Select("photos.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'photo' AND likes.target_id = photos.id) AS likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.target_type = 'photo' AND comments.target_id = photos.id) AS comments_count")
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return models.NewStorageFailureError("create photo", err)
	}
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	err := applyPhotoCounts(r.db.WithContext(ctx).Model(&models.Photo{})).
		Preload("User").
		First(&photo, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Photo", id)
	}
	return &photo, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Photo{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count photos", err)
	}

	var photos []*models.Photo
	err := applyPhotoCounts(q).
		Order("photos.created_at DESC, photos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list photos", err)
	}
	return photos, total, nil
}

func (r *photoRepository) ListForFeed(ctx context.Context, ownerIDs []uint, limit int) ([]*models.Photo, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var photos []*models.Photo
	err := applyPhotoCounts(r.db.WithContext(ctx).Model(&models.Photo{})).
		Preload("User").
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, models.NewStorageFailureError("list feed photos", err)
	}
	return photos, nil
}

func (r *photoRepository) CountForFeed(ctx context.Context, ownerIDs []uint) (int64, error) {
	if len(ownerIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("user_id IN ?", ownerIDs).
		Count(&total).Error
	if err != nil {
		return 0, models.NewStorageFailureError("count feed photos", err)
	}
	return total, nil
}
