package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// ModerationService covers comment flags and their resolution.
type ModerationService struct {
	db     *gorm.DB
	policy Policy
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// FlagComment opens a flag on the comment. Flagging your own comment is
// rejected; one open flag per (comment, flagger) at a time.
func (s *ModerationService) FlagComment(ctx context.Context, user *models.User, commentID uint, reason string) (*models.CommentFlag, error) {
	if user == nil {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	comment, err := repository.NewCommentRepository(s.db).GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanFlag(user, comment.UserID) {
		return nil, models.NewConflictError("you cannot flag your own comment")
	}

	flags := repository.NewFlagRepository(s.db)
	open, err := flags.OpenExists(ctx, commentID, user.ID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, models.NewConflictError("you already flagged this comment")
	}

	flag := &models.CommentFlag{
		CommentID: commentID,
		FlaggerID: user.ID,
		Reason:    reason,
	}
	if err := flags.Create(ctx, flag); err != nil {
		return nil, err
	}
	return flag, nil
}

// ResolveFlag closes an open flag. Admin only.
func (s *ModerationService) ResolveFlag(ctx context.Context, admin *models.User, flagID uint) (*models.CommentFlag, error) {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return nil, err
	}
	flags := repository.NewFlagRepository(s.db)
	flag, err := flags.GetByID(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if flag.IsResolved {
		return nil, models.NewConflictError("flag is already resolved")
	}
	if err := flags.Resolve(ctx, flag, admin.ID); err != nil {
		return nil, err
	}
	return flag, nil
}
