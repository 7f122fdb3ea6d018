package models

import "time"

// CommentFlag is a user report against a comment. A flag is "open" until an
// admin resolves it; a comment with any open flag is considered actively
// flagged.
type CommentFlag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CommentID uint   `gorm:"not null;index" json:"comment_id"`
	FlaggerID uint   `gorm:"not null;index" json:"flagger_id"`
	Reason    string `json:"reason"`

	IsResolved bool       `gorm:"default:false;index" json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at"`
	ResolverID *uint      `json:"resolver_id"`

	CreatedAt time.Time `json:"created_at"`

	Comment Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	Flagger User    `gorm:"foreignKey:FlaggerID" json:"flagger,omitempty"`
}
