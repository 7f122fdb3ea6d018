package models

import "time"

// Like records a user liking a post, comment, or photo.
// The combination of UserID, TargetType, and TargetID must be unique;
// concurrent duplicate likes resolve to a single row via ON CONFLICT DO NOTHING.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	TargetType TargetType `gorm:"type:varchar(10);not null;uniqueIndex:idx_like_user_target;index:idx_like_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_like_user_target;index:idx_like_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Target returns the typed reference the like applies to.
func (l *Like) Target() TargetRef {
	return TargetRef{Type: l.TargetType, ID: l.TargetID}
}
