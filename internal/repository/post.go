// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gather/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	ListByUser(ctx context.Context, userID uint, includeUnpublished bool, limit, offset int) ([]*models.Post, int64, error)
	ListByTagSlug(ctx context.Context, slug string, limit, offset int) ([]*models.Post, int64, error)
	ListByCategorySlug(ctx context.Context, slug string, limit, offset int) ([]*models.Post, int64, error)
	ListForFeed(ctx context.Context, authorIDs []uint, limit int) ([]*models.Post, error)
	CountForFeed(ctx context.Context, authorIDs []uint) (int64, error)
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	ReplaceCategories(ctx context.Context, post *models.Post, categories []models.Category) error
	EnsureTag(ctx context.Context, name, slug string) (*models.Tag, error)
	CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyCounts adds subqueries to fetch like and comment counts in one query.
func applyPostCounts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'post' AND likes.target_id = posts.id) AS likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.target_type = 'post' AND comments.target_id = posts.id) AS comments_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewStorageFailureError("create post", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := applyPostCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("User").
		Preload("Tags").
		Preload("Categories").
		First(&post, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewStorageFailureError("update post", err)
	}
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, includeUnpublished bool, limit, offset int) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)
	if !includeUnpublished {
		q = q.Where("is_published = ?", true)
	}
	return r.page(ctx, q, limit, offset)
}

func (r *postRepository) ListByTagSlug(ctx context.Context, slug string, limit, offset int) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.slug = ? AND posts.is_published = ?", slug, true)
	return r.page(ctx, q, limit, offset)
}

func (r *postRepository) ListByCategorySlug(ctx context.Context, slug string, limit, offset int) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN post_categories ON post_categories.post_id = posts.id").
		Joins("JOIN categories ON categories.id = post_categories.category_id").
		Where("categories.slug = ? AND posts.is_published = ?", slug, true)
	return r.page(ctx, q, limit, offset)
}

func (r *postRepository) page(ctx context.Context, q *gorm.DB, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewStorageFailureError("count posts", err)
	}
	var posts []*models.Post
	err := applyPostCounts(q).
		Preload("User").
		Preload("Tags").
		Preload("Categories").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewStorageFailureError("list posts", err)
	}
	return posts, total, nil
}

// ListForFeed returns the newest published posts by the given authors,
// ordered by publish time then id descending.
func (r *postRepository) ListForFeed(ctx context.Context, authorIDs []uint, limit int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := applyPostCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("User").
		Where("user_id IN ? AND is_published = ?", authorIDs, true).
		Order("published_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageFailureError("list feed posts", err)
	}
	return posts, nil
}

func (r *postRepository) CountForFeed(ctx context.Context, authorIDs []uint) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id IN ? AND is_published = ?", authorIDs, true).
		Count(&total).Error
	if err != nil {
		return 0, models.NewStorageFailureError("count feed posts", err)
	}
	return total, nil
}

func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags); err != nil {
		return models.NewStorageFailureError("replace post tags", err)
	}
	return nil
}

func (r *postRepository) ReplaceCategories(ctx context.Context, post *models.Post, categories []models.Category) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Categories").Replace(categories); err != nil {
		return models.NewStorageFailureError("replace post categories", err)
	}
	return nil
}

// EnsureTag reuses the tag with the given slug or creates it with the given
// display name. The slug, not the name, is the identity.
func (r *postRepository) EnsureTag(ctx context.Context, name, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where(models.Tag{Slug: slug}).
		Attrs(models.Tag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race to another creator; the row exists now.
			if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
				return nil, models.NewStorageFailureError("get tag", err)
			}
			return &tag, nil
		}
		return nil, models.NewStorageFailureError("ensure tag", err)
	}
	return &tag, nil
}

// CategoriesByIDs returns the categories that exist among ids; unknown ids
// are silently dropped.
func (r *postRepository) CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, models.NewStorageFailureError("list categories", err)
	}
	return categories, nil
}
