package service

import "gather/internal/models"

// Policy centralises the read/write predicates. A nil viewer means the
// request is unauthenticated.
type Policy struct{}

func (Policy) isAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin
}

// CanViewProfile allows public profiles, the owner, and admins.
func (p Policy) CanViewProfile(viewer, u *models.User) bool {
	if u == nil {
		return false
	}
	if u.IsProfilePublic {
		return true
	}
	if viewer != nil && viewer.ID == u.ID {
		return true
	}
	return p.isAdmin(viewer)
}

// CanViewPost allows published posts to everyone; drafts only to their
// author and admins.
func (p Policy) CanViewPost(viewer *models.User, post *models.Post) bool {
	if post == nil {
		return false
	}
	if post.IsPublished {
		return true
	}
	if viewer != nil && viewer.ID == post.UserID {
		return true
	}
	return p.isAdmin(viewer)
}

// CanViewPhoto follows the owner's profile visibility.
func (p Policy) CanViewPhoto(viewer *models.User, owner *models.User) bool {
	return p.CanViewProfile(viewer, owner)
}

// CanEditContent allows the owner and admins.
func (p Policy) CanEditContent(editor *models.User, ownerID uint) bool {
	if editor == nil {
		return false
	}
	return editor.ID == ownerID || editor.IsAdmin
}

// CanDeleteComment extends edit rights to the owner of the comment's
// ultimate target (the post author or photo owner).
func (p Policy) CanDeleteComment(actor *models.User, commentAuthorID, ultimateOwnerID uint) bool {
	if actor == nil {
		return false
	}
	return actor.ID == commentAuthorID || actor.ID == ultimateOwnerID || actor.IsAdmin
}

// CanFlag forbids flagging one's own comment.
func (p Policy) CanFlag(user *models.User, commentAuthorID uint) bool {
	return user != nil && user.ID != commentAuthorID
}

// RequireAdmin returns Forbidden unless u is an admin.
func (p Policy) RequireAdmin(u *models.User) error {
	if u == nil {
		return models.NewUnauthenticatedError("authentication required")
	}
	if !u.IsAdmin {
		return models.NewForbiddenError("admin privileges required")
	}
	return nil
}
