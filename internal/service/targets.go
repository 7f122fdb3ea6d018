package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
)

// targetInfo is the resolved view of a polymorphic interaction target.
type targetInfo struct {
	// OwnerID owns the entity the reference names directly (comment
	// author for a comment target).
	OwnerID uint
	// UltimateOwnerID owns the post or photo at the bottom of the chain.
	UltimateOwnerID uint
	// ContextPostID is set when the chain bottoms out at a post.
	ContextPostID *uint
}

// resolveTarget loads the target, walks comment chains down to the holding
// post or photo, and enforces visibility for the viewer. Invisible or missing
// targets come back as NotFound.
func resolveTarget(ctx context.Context, tx *gorm.DB, viewer *models.User, target models.TargetRef) (*targetInfo, error) {
	if !target.Interactable() {
		return nil, models.NewValidationError("target must be a post, comment, or photo")
	}

	var pol Policy
	info := &targetInfo{}
	cur := target
	first := true
	for {
		switch cur.Type {
		case models.TargetPost:
			post, err := repository.NewPostRepository(tx).GetByID(ctx, cur.ID)
			if err != nil {
				return nil, err
			}
			if !pol.CanViewPost(viewer, post) {
				return nil, models.NewNotFoundError("post", cur.ID)
			}
			if first {
				info.OwnerID = post.UserID
			}
			info.UltimateOwnerID = post.UserID
			id := post.ID
			info.ContextPostID = &id
			return info, nil

		case models.TargetPhoto:
			photo, err := repository.NewPhotoRepository(tx).GetByID(ctx, cur.ID)
			if err != nil {
				return nil, err
			}
			owner, err := repository.NewUserRepository(tx).GetByID(ctx, photo.UserID)
			if err != nil {
				return nil, err
			}
			if !pol.CanViewPhoto(viewer, owner) {
				return nil, models.NewNotFoundError("photo", cur.ID)
			}
			if first {
				info.OwnerID = photo.UserID
			}
			info.UltimateOwnerID = photo.UserID
			return info, nil

		case models.TargetComment:
			comment, err := repository.NewCommentRepository(tx).GetByID(ctx, cur.ID)
			if err != nil {
				return nil, err
			}
			if first {
				info.OwnerID = comment.UserID
				first = false
			}
			cur = comment.Target()

		default:
			return nil, models.NewValidationError("target must be a post, comment, or photo")
		}
	}
}
