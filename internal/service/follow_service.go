package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// FollowService maintains the social graph.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow links follower -> followee and records the derived events in the
// same transaction.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewConflictError("you cannot follow yourself")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewUserRepository(tx).GetByID(ctx, followeeID); err != nil {
			return err
		}
		created, err := repository.NewFollowRepository(tx).Insert(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if !created {
			return models.NewConflictError("already following this user")
		}
		rec := newRecorder(tx)
		if err := rec.notify(ctx, followeeID, followerID,
			models.NotificationNewFollower,
			models.TargetRef{Type: models.TargetUser, ID: followerID}, nil); err != nil {
			return err
		}
		return rec.act(ctx, followerID,
			models.ActivityStartedFollowing,
			models.TargetRef{Type: models.TargetUser, ID: followeeID}, nil)
	})
}

// Unfollow removes the link; the historical new_follower notification stays.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	removed, err := repository.NewFollowRepository(s.db).Delete(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewConflictError("not following this user")
	}
	return nil
}

// IsFollowing reports whether the link exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return repository.NewFollowRepository(s.db).Exists(ctx, followerID, followeeID)
}

// Followers returns one page of the user's followers.
func (s *FollowService) Followers(ctx context.Context, userID uint, page, perPage int) ([]models.User, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	users, total, err := repository.NewFollowRepository(s.db).Followers(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return users, models.NewPageInfo(p.Page, p.PerPage, total), nil
}

// Following returns one page of the users this user follows.
func (s *FollowService) Following(ctx context.Context, userID uint, page, perPage int) ([]models.User, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	users, total, err := repository.NewFollowRepository(s.db).Following(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return users, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
