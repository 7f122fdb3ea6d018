// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment is a threaded comment on a post, photo, or another comment.
// ParentID is set for replies; the parent must share the same target.
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body       string     `gorm:"not null" json:"body"`
	TargetType TargetType `gorm:"type:varchar(10);not null;index:idx_comment_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;index:idx_comment_target" json:"target_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id"`

	// FlaggedActive is derived on read: true when at least one unresolved
	// flag exists for this comment.
	FlaggedActive bool `gorm:"->;-:migration" json:"is_flagged_active"`
	LikesCount    int  `gorm:"->;-:migration" json:"likes_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Target returns the typed reference this comment is attached to.
func (c *Comment) Target() TargetRef {
	return TargetRef{Type: c.TargetType, ID: c.TargetID}
}
