package models

import "time"

// Post is a Markdown text post. Content holds the raw Markdown source;
// rendering happens at the presentation layer through markdown.RenderSafe.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content string `gorm:"not null" json:"content"`

	// IsPublished is set explicitly on create; no column default so drafts
	// survive gorm's zero-value handling.
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`

	Tags       []Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`

	// LikesCount and CommentsCount are not persisted; computed at query time.
	LikesCount    int `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedTimestamp is the instant the post sorts by in feeds.
func (p *Post) FeedTimestamp() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// Tag labels posts. Name keeps the first spelling seen; Slug is derived via
// slug.Make and is the identity used for reuse lookups.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	Slug string `gorm:"unique;not null" json:"slug"`
}

// Category is an admin-curated grouping for posts.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	Slug string `gorm:"unique;not null" json:"slug"`
}
