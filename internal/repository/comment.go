package repository

import (
	"context"

	"gather/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	ListByTarget(ctx context.Context, target models.TargetRef, limit, offset int) ([]*models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// applyCommentDerived computes is_flagged_active and the like count inline.
func applyCommentDerived(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, " +
		"EXISTS(SELECT 1 FROM comment_flags WHERE comment_flags.comment_id = comments.id AND NOT comment_flags.is_resolved) AS flagged_active, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'comment' AND likes.target_id = comments.id) AS likes_count")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewStorageFailureError("create comment", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := applyCommentDerived(r.db.WithContext(ctx).Model(&models.Comment{})).
		Preload("User").
		First(&comment, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewStorageFailureError("update comment", err)
	}
	return nil
}

// ListByTarget returns the comments attached to a target, oldest first,
// replies included (threading is reassembled by the caller via ParentID).
func (r *commentRepository) ListByTarget(ctx context.Context, target models.TargetRef, limit, offset int) ([]*models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ?", target.Type, target.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count comments", err)
	}

	var comments []*models.Comment
	err := applyCommentDerived(q).
		Preload("User").
		Order("comments.created_at ASC, comments.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list comments", err)
	}
	return comments, total, nil
}
