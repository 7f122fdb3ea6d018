package models

import "time"

// ActivityType enumerates the public actions recorded on a user's timeline.
type ActivityType string

const (
	ActivityStartedFollowing ActivityType = "started_following"
	ActivityCreatedPost      ActivityType = "created_post"
	ActivityCommentedOnPost  ActivityType = "commented_on_post"
	ActivityCommentedOnPhoto ActivityType = "commented_on_photo"
	ActivityLikedItem        ActivityType = "liked_item"
)

// Activity is an append-only record of something a user did. Unlike
// notifications it is keyed by the actor; unliking or unfollowing does not
// remove the historical entry.
type Activity struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"not null;index:idx_activity_actor,priority:1" json:"user_id"`
	Type       ActivityType `gorm:"type:varchar(30);not null" json:"type"`
	TargetType TargetType   `gorm:"type:varchar(10);index:idx_activity_target" json:"target_type"`
	TargetID   uint         `gorm:"index:idx_activity_target" json:"target_id"`
	PostID     *uint        `json:"post_id"`
	CreatedAt  time.Time    `gorm:"index:idx_activity_actor,priority:2,sort:desc" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Target returns the typed reference the activity points at.
func (a *Activity) Target() TargetRef {
	return TargetRef{Type: a.TargetType, ID: a.TargetID}
}
