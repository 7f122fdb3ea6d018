package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gather/internal/models"
)

// FlagRepository persists comment flags raised for moderator review.
type FlagRepository interface {
	Create(ctx context.Context, flag *models.CommentFlag) error
	GetByID(ctx context.Context, id uint) (*models.CommentFlag, error)
	// OpenExists reports whether the user already has an unresolved flag
	// on the comment.
	OpenExists(ctx context.Context, commentID, flaggerID uint) (bool, error)
	Resolve(ctx context.Context, flag *models.CommentFlag, resolverID uint) error
	ListOpen(ctx context.Context, limit, offset int) ([]*models.CommentFlag, int64, error)
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(ctx context.Context, flag *models.CommentFlag) error {
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		return models.NewStorageFailureError("create flag", err)
	}
	return nil
}

func (r *flagRepository) GetByID(ctx context.Context, id uint) (*models.CommentFlag, error) {
	var flag models.CommentFlag
	err := r.db.WithContext(ctx).
		Preload("Comment").
		Preload("Flagger").
		First(&flag, id).Error
	if err != nil {
		return nil, notFoundOr(err, "flag", id)
	}
	return &flag, nil
}

func (r *flagRepository) OpenExists(ctx context.Context, commentID, flaggerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentFlag{}).
		Where("comment_id = ? AND flagger_id = ? AND NOT is_resolved", commentID, flaggerID).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageFailureError("check flag", err)
	}
	return count > 0, nil
}

func (r *flagRepository) Resolve(ctx context.Context, flag *models.CommentFlag, resolverID uint) error {
	now := time.Now()
	flag.IsResolved = true
	flag.ResolvedAt = &now
	flag.ResolverID = &resolverID
	err := r.db.WithContext(ctx).
		Model(flag).
		Updates(map[string]any{
			"is_resolved": true,
			"resolved_at": now,
			"resolver_id": resolverID,
		}).Error
	if err != nil {
		return models.NewStorageFailureError("resolve flag", err)
	}
	return nil
}

func (r *flagRepository) ListOpen(ctx context.Context, limit, offset int) ([]*models.CommentFlag, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.CommentFlag{}).
		Where("NOT is_resolved")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count flags", err)
	}

	var flags []*models.CommentFlag
	err := q.
		Preload("Comment").
		Preload("Comment.User").
		Preload("Flagger").
		Order("comment_flags.created_at ASC, comment_flags.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&flags).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list flags", err)
	}
	return flags, total, nil
}
