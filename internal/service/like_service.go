package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// LikeService covers the like half of the interaction store. Like and Unlike
// are both idempotent at the store level; reaching an already-reached state
// reports a Conflict without rolling anything back.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Like inserts the like and emits the owner notification and the liked_item
// activity. Liking your own content records the activity but no
// notification. A concurrent duplicate collapses to one row and the loser
// sees AlreadyLiked.
func (s *LikeService) Like(ctx context.Context, user *models.User, target models.TargetRef) error {
	if user == nil {
		return models.NewUnauthenticatedError("authentication required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		info, err := resolveTarget(ctx, tx, user, target)
		if err != nil {
			return err
		}
		created, err := repository.NewLikeRepository(tx).Insert(ctx, user.ID, target)
		if err != nil {
			return err
		}
		if !created {
			return models.NewConflictError("already liked")
		}

		// Routing context only matters when the liked thing is a comment.
		var contextPost *uint
		if target.Type == models.TargetComment {
			contextPost = info.ContextPostID
		}
		rec := newRecorder(tx)
		if info.OwnerID != user.ID {
			if err := rec.notify(ctx, info.OwnerID, user.ID,
				models.NotificationNewLike, target, contextPost); err != nil {
				return err
			}
		}
		return rec.act(ctx, user.ID, models.ActivityLikedItem, target, contextPost)
	})
}

// Unlike removes the like row only; the notification and activity written by
// Like are history and stay.
func (s *LikeService) Unlike(ctx context.Context, user *models.User, target models.TargetRef) error {
	if user == nil {
		return models.NewUnauthenticatedError("authentication required")
	}
	removed, err := repository.NewLikeRepository(s.db).Delete(ctx, user.ID, target)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewConflictError("not liked")
	}
	return nil
}

// IsLiked reports whether the user currently likes the target.
func (s *LikeService) IsLiked(ctx context.Context, userID uint, target models.TargetRef) (bool, error) {
	return repository.NewLikeRepository(s.db).Exists(ctx, userID, target)
}

// Count returns the target's like count.
func (s *LikeService) Count(ctx context.Context, target models.TargetRef) (int64, error) {
	return repository.NewLikeRepository(s.db).CountByTarget(ctx, target)
}
