package models

import "time"

// Photo is a gallery image owned by a user. FileRef is the path-like
// reference returned by the file store; deleting the photo must release it.
type Photo struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FileRef string `gorm:"not null" json:"file_ref"`
	Caption string `json:"caption"`

	LikesCount    int `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
}
