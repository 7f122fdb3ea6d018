package repository

import (
	"gorm.io/gorm"

	"gather/internal/models"
)

// Cascade deletes run inside the caller's transaction and remove an entity
// together with everything hanging off it: comment trees, likes, flags,
// notifications and activities. The schema carries no ON DELETE rules, so
// the order here is the contract.

// collectCommentTree expands the given comment ids with all transitive
// replies.
func collectCommentTree(tx *gorm.DB, seed []uint) ([]uint, error) {
	all := append([]uint(nil), seed...)
	frontier := seed
	for len(frontier) > 0 {
		var children []uint
		err := tx.Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, models.NewStorageFailureError("collect comment replies", err)
		}
		all = append(all, children...)
		frontier = children
	}
	return all, nil
}

// deleteCommentTrees removes the comments, their replies, and every like,
// flag, notification and activity that points at any of them.
func deleteCommentTrees(tx *gorm.DB, seed []uint) error {
	if len(seed) == 0 {
		return nil
	}
	ids, err := collectCommentTree(tx, seed)
	if err != nil {
		return err
	}
	if err := deleteInteractions(tx, models.TargetComment, ids); err != nil {
		return err
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentFlag{}).Error; err != nil {
		return models.NewStorageFailureError("delete comment flags", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return models.NewStorageFailureError("delete comments", err)
	}
	return nil
}

// deleteInteractions removes likes, notifications and activities pointing at
// the given targets of one type.
func deleteInteractions(tx *gorm.DB, typ models.TargetType, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("target_type = ? AND target_id IN ?", typ, ids).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewStorageFailureError("delete likes", err)
	}
	if err := tx.Where("target_type = ? AND target_id IN ?", typ, ids).
		Delete(&models.Notification{}).Error; err != nil {
		return models.NewStorageFailureError("delete notifications", err)
	}
	if err := tx.Where("target_type = ? AND target_id IN ?", typ, ids).
		Delete(&models.Activity{}).Error; err != nil {
		return models.NewStorageFailureError("delete activities", err)
	}
	return nil
}

// DeleteCommentCascade removes one comment together with its reply tree and
// every interaction with any of them.
func DeleteCommentCascade(tx *gorm.DB, commentID uint) error {
	return deleteCommentTrees(tx, []uint{commentID})
}

// DeletePostCascade removes a post, its comment trees, and every interaction
// with any of them.
func DeletePostCascade(tx *gorm.DB, postID uint) error {
	var commentIDs []uint
	err := tx.Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ?", models.TargetPost, postID).
		Pluck("id", &commentIDs).Error
	if err != nil {
		return models.NewStorageFailureError("collect post comments", err)
	}
	// Replies always share the root comment's target, so the pluck above
	// already holds the full trees.
	if err := deleteCommentTrees(tx, commentIDs); err != nil {
		return err
	}
	if err := deleteInteractions(tx, models.TargetPost, []uint{postID}); err != nil {
		return err
	}
	// Notifications and activities that kept the post as context only.
	if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
		return models.NewStorageFailureError("delete notifications", err)
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Activity{}).Error; err != nil {
		return models.NewStorageFailureError("delete activities", err)
	}
	post := models.Post{ID: postID}
	if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
		return models.NewStorageFailureError("clear post tags", err)
	}
	if err := tx.Model(&post).Association("Categories").Clear(); err != nil {
		return models.NewStorageFailureError("clear post categories", err)
	}
	if err := tx.Delete(&models.Post{}, postID).Error; err != nil {
		return models.NewStorageFailureError("delete post", err)
	}
	return nil
}

// DeletePhotoCascade removes a photo and everything pointing at it, and
// returns the file reference the caller must release after commit.
func DeletePhotoCascade(tx *gorm.DB, photoID uint) (string, error) {
	var photo models.Photo
	if err := tx.First(&photo, photoID).Error; err != nil {
		return "", notFoundOr(err, "photo", photoID)
	}
	var commentIDs []uint
	err := tx.Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ?", models.TargetPhoto, photoID).
		Pluck("id", &commentIDs).Error
	if err != nil {
		return "", models.NewStorageFailureError("collect photo comments", err)
	}
	if err := deleteCommentTrees(tx, commentIDs); err != nil {
		return "", err
	}
	if err := deleteInteractions(tx, models.TargetPhoto, []uint{photoID}); err != nil {
		return "", err
	}
	if err := tx.Delete(&models.Photo{}, photoID).Error; err != nil {
		return "", models.NewStorageFailureError("delete photo", err)
	}
	return photo.FileRef, nil
}

// DeleteUserCascade removes a user account with all content they own, every
// edge touching them, and their notification and activity history. It
// returns the file references of the user's photos so the caller can release
// them after commit.
func DeleteUserCascade(tx *gorm.DB, userID uint) ([]string, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user", userID)
	}

	var postIDs []uint
	err := tx.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Pluck("id", &postIDs).Error
	if err != nil {
		return nil, models.NewStorageFailureError("collect user posts", err)
	}
	for _, id := range postIDs {
		if err := DeletePostCascade(tx, id); err != nil {
			return nil, err
		}
	}

	var photoIDs []uint
	err = tx.Model(&models.Photo{}).
		Where("user_id = ?", userID).
		Pluck("id", &photoIDs).Error
	if err != nil {
		return nil, models.NewStorageFailureError("collect user photos", err)
	}
	fileRefs := make([]string, 0, len(photoIDs)+1)
	if user.ProfilePhoto != "" {
		fileRefs = append(fileRefs, user.ProfilePhoto)
	}
	for _, id := range photoIDs {
		ref, err := DeletePhotoCascade(tx, id)
		if err != nil {
			return nil, err
		}
		fileRefs = append(fileRefs, ref)
	}

	// Comments the user left on other people's content, with their reply
	// trees.
	var commentIDs []uint
	err = tx.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Pluck("id", &commentIDs).Error
	if err != nil {
		return nil, models.NewStorageFailureError("collect user comments", err)
	}
	if err := deleteCommentTrees(tx, commentIDs); err != nil {
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
		return nil, models.NewStorageFailureError("delete likes", err)
	}
	if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
		Delete(&models.Follow{}).Error; err != nil {
		return nil, models.NewStorageFailureError("delete follows", err)
	}
	if err := tx.Where("flagger_id = ? OR resolver_id = ?", userID, userID).
		Delete(&models.CommentFlag{}).Error; err != nil {
		return nil, models.NewStorageFailureError("delete flags", err)
	}
	if err := tx.Where("user_id = ? OR actor_id = ?", userID, userID).
		Delete(&models.Notification{}).Error; err != nil {
		return nil, models.NewStorageFailureError("delete notifications", err)
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Activity{}).Error; err != nil {
		return nil, models.NewStorageFailureError("delete activities", err)
	}
	if err := tx.Delete(&models.User{}, userID).Error; err != nil {
		return nil, models.NewStorageFailureError("delete user", err)
	}
	return fileRefs, nil
}
