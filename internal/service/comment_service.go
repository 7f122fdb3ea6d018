package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

const maxCommentLen = 10000

// CommentService covers threaded comments over posts, photos, and comments.
type CommentService struct {
	db     *gorm.DB
	policy Policy
}

type AddCommentInput struct {
	Target   models.TargetRef
	Body     string
	ParentID *uint
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func validateCommentBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("comment text is required")
	}
	if len(body) > maxCommentLen {
		return models.NewValidationError("comment is too long")
	}
	return nil
}

// AddComment inserts the comment and emits the owner notification, the
// activity entry, and any mention notifications in the same transaction.
// A reply's parent must sit on the same target.
func (s *CommentService) AddComment(ctx context.Context, author *models.User, in AddCommentInput) (*models.Comment, error) {
	if author == nil {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	if err := validateCommentBody(in.Body); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:     author.ID,
		Body:       in.Body,
		TargetType: in.Target.Type,
		TargetID:   in.Target.ID,
		ParentID:   in.ParentID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		info, err := resolveTarget(ctx, tx, author, in.Target)
		if err != nil {
			return err
		}
		comments := repository.NewCommentRepository(tx)
		if in.ParentID != nil {
			parent, err := comments.GetByID(ctx, *in.ParentID)
			if err != nil {
				return err
			}
			if parent.Target() != in.Target {
				return models.NewValidationError("reply parent belongs to a different target")
			}
		}
		if err := comments.Create(ctx, comment); err != nil {
			return err
		}

		rec := newRecorder(tx)
		commentRef := models.TargetRef{Type: models.TargetComment, ID: comment.ID}
		if info.OwnerID != author.ID {
			if err := rec.notify(ctx, info.OwnerID, author.ID,
				models.NotificationNewComment, commentRef, info.ContextPostID); err != nil {
				return err
			}
		}
		activity := models.ActivityCommentedOnPhoto
		if info.ContextPostID != nil {
			activity = models.ActivityCommentedOnPost
		}
		if err := rec.act(ctx, author.ID, activity, commentRef, info.ContextPostID); err != nil {
			return err
		}
		return resolveMentions(ctx, tx, author.ID, in.Body,
			models.NotificationMentionInComment, commentRef, info.ContextPostID)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewCommentRepository(s.db).GetByID(ctx, comment.ID)
}

// Reply adds a comment under parent, inheriting the parent's target.
func (s *CommentService) Reply(ctx context.Context, author *models.User, parentID uint, body string) (*models.Comment, error) {
	parent, err := repository.NewCommentRepository(s.db).GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.AddComment(ctx, author, AddCommentInput{
		Target:   parent.Target(),
		Body:     body,
		ParentID: &parent.ID,
	})
}

// EditComment updates the text and re-resolves mentions; recipients already
// notified for this comment stay notified once.
func (s *CommentService) EditComment(ctx context.Context, editor *models.User, commentID uint, body string) (*models.Comment, error) {
	comments := repository.NewCommentRepository(s.db)
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanEditContent(editor, comment.UserID) {
		return nil, models.NewForbiddenError("you can only edit your own comments")
	}
	if err := validateCommentBody(body); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment.Body = body
		if err := repository.NewCommentRepository(tx).Update(ctx, comment); err != nil {
			return err
		}
		info, err := resolveTarget(ctx, tx, editor, comment.Target())
		if err != nil {
			return err
		}
		return resolveMentions(ctx, tx, comment.UserID, body,
			models.NotificationMentionInComment,
			models.TargetRef{Type: models.TargetComment, ID: comment.ID}, info.ContextPostID)
	})
	if err != nil {
		return nil, err
	}
	return comments.GetByID(ctx, comment.ID)
}

// DeleteComment may be called by the comment author, the owner of the post
// or photo it ultimately sits on, or an admin. Replies go down with it.
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, commentID uint) error {
	comment, err := repository.NewCommentRepository(s.db).GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	info, err := resolveTarget(ctx, s.db, actor, comment.Target())
	if err != nil {
		return err
	}
	if !s.policy.CanDeleteComment(actor, comment.UserID, info.UltimateOwnerID) {
		return models.NewForbiddenError("you cannot delete this comment")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.DeleteCommentCascade(tx, commentID)
	})
}

// ListComments pages the comments on a target, oldest first.
func (s *CommentService) ListComments(ctx context.Context, viewer *models.User, target models.TargetRef, page, perPage int) ([]*models.Comment, models.PageInfo, error) {
	if _, err := resolveTarget(ctx, s.db, viewer, target); err != nil {
		return nil, models.PageInfo{}, err
	}
	p := models.NewPageInfo(page, perPage, 0)
	comments, total, err := repository.NewCommentRepository(s.db).ListByTarget(ctx, target, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return comments, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
