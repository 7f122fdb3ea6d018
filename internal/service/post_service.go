package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
	"gather/internal/slug"
)

const maxPostLen = 50000

// PostService covers the post half of the content store: CRUD, tag and
// category relations, and the derived events of publishing.
type PostService struct {
	db     *gorm.DB
	policy Policy
}

type CreatePostInput struct {
	AuthorID    uint
	Content     string
	CategoryIDs []uint
	// TagString is the raw comma-separated tag field from the compose form.
	TagString string
}

type UpdatePostInput struct {
	PostID      uint
	Content     string
	CategoryIDs []uint
	TagString   string
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// applyTags parses the comma-separated tag field, reusing existing tags by
// slug, and replaces the post's tag set. Duplicate spellings collapse to one
// tag; blank entries are dropped.
func applyTags(ctx context.Context, tx *gorm.DB, post *models.Post, tagString string) error {
	posts := repository.NewPostRepository(tx)
	seen := map[string]struct{}{}
	var tags []models.Tag
	for _, raw := range strings.Split(tagString, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		sl := slug.Make(name)
		if sl == "" {
			continue
		}
		if _, dup := seen[sl]; dup {
			continue
		}
		seen[sl] = struct{}{}
		tag, err := posts.EnsureTag(ctx, name, sl)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return posts.ReplaceTags(ctx, post, tags)
}

// applyCategories replaces the post's categories from the given ids. Unknown
// ids are dropped silently.
func applyCategories(ctx context.Context, tx *gorm.DB, post *models.Post, ids []uint) error {
	posts := repository.NewPostRepository(tx)
	categories, err := posts.CategoriesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	return posts.ReplaceCategories(ctx, post, categories)
}

// CreatePost stores the post, wires its relations, records the created_post
// activity, and resolves mentions, all in one transaction.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(in.Content) > maxPostLen {
		return nil, models.NewValidationError("post is too long")
	}

	now := time.Now().UTC()
	post := &models.Post{
		UserID:      in.AuthorID,
		Content:     in.Content,
		IsPublished: true,
		PublishedAt: &now,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		if err := applyTags(ctx, tx, post, in.TagString); err != nil {
			return err
		}
		if err := applyCategories(ctx, tx, post, in.CategoryIDs); err != nil {
			return err
		}
		target := models.TargetRef{Type: models.TargetPost, ID: post.ID}
		if err := newRecorder(tx).act(ctx, in.AuthorID, models.ActivityCreatedPost, target, nil); err != nil {
			return err
		}
		return resolveMentions(ctx, tx, in.AuthorID, in.Content,
			models.NotificationMentionInPost, target, &post.ID)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewPostRepository(s.db).GetByID(ctx, post.ID)
}

// UpdatePost rewrites content and relations. Mentions are re-resolved;
// recipients already notified for this post are not notified again.
func (s *PostService) UpdatePost(ctx context.Context, editor *models.User, in UpdatePostInput) (*models.Post, error) {
	posts := repository.NewPostRepository(s.db)
	post, err := posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanEditContent(editor, post.UserID) {
		return nil, models.NewForbiddenError("you can only edit your own posts")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(in.Content) > maxPostLen {
		return nil, models.NewValidationError("post is too long")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post.Content = in.Content
		if err := repository.NewPostRepository(tx).Update(ctx, post); err != nil {
			return err
		}
		if err := applyTags(ctx, tx, post, in.TagString); err != nil {
			return err
		}
		if err := applyCategories(ctx, tx, post, in.CategoryIDs); err != nil {
			return err
		}
		return resolveMentions(ctx, tx, post.UserID, in.Content,
			models.NotificationMentionInPost,
			models.TargetRef{Type: models.TargetPost, ID: post.ID}, &post.ID)
	})
	if err != nil {
		return nil, err
	}
	return posts.GetByID(ctx, post.ID)
}

// DeletePost cascades through comments, likes, flags, and derived events.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, postID uint) error {
	post, err := repository.NewPostRepository(s.db).GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !s.policy.CanEditContent(actor, post.UserID) {
		return models.NewForbiddenError("you can only delete your own posts")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.DeletePostCascade(tx, postID)
	})
}

// GetPost returns the post when visible to the viewer.
func (s *PostService) GetPost(ctx context.Context, viewer *models.User, postID uint) (*models.Post, error) {
	post, err := repository.NewPostRepository(s.db).GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewPost(viewer, post) {
		return nil, models.NewNotFoundError("post", postID)
	}
	return post, nil
}

// ListByUser pages a user's posts; drafts are included only for the author
// and admins.
func (s *PostService) ListByUser(ctx context.Context, viewer *models.User, userID uint, page, perPage int) ([]*models.Post, models.PageInfo, error) {
	includeUnpublished := s.policy.CanEditContent(viewer, userID)
	p := models.NewPageInfo(page, perPage, 0)
	posts, total, err := repository.NewPostRepository(s.db).ListByUser(ctx, userID, includeUnpublished, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return posts, models.NewPageInfo(p.Page, p.PerPage, total), nil
}

// ListByTag pages published posts labelled with the tag slug.
func (s *PostService) ListByTag(ctx context.Context, tagSlug string, page, perPage int) ([]*models.Post, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	posts, total, err := repository.NewPostRepository(s.db).ListByTagSlug(ctx, tagSlug, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return posts, models.NewPageInfo(p.Page, p.PerPage, total), nil
}

// ListByCategory pages published posts in the category slug.
func (s *PostService) ListByCategory(ctx context.Context, categorySlug string, page, perPage int) ([]*models.Post, models.PageInfo, error) {
	p := models.NewPageInfo(page, perPage, 0)
	posts, total, err := repository.NewPostRepository(s.db).ListByCategorySlug(ctx, categorySlug, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return posts, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
