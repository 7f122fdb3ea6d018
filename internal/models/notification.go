package models

import "time"

// NotificationType enumerates the events a user can be notified about.
type NotificationType string

const (
	NotificationNewFollower       NotificationType = "new_follower"
	NotificationNewPhoto          NotificationType = "new_photo"
	NotificationNewComment        NotificationType = "new_comment"
	NotificationNewLike           NotificationType = "new_like"
	NotificationMentionInPost     NotificationType = "mention_in_post"
	NotificationMentionInComment  NotificationType = "mention_in_comment"
	NotificationUserApproved      NotificationType = "user_approved"
	NotificationSiteSettingChange NotificationType = "site_setting_changed"
)

// Notification is owned by its recipient and written in the same transaction
// as the mutation that caused it. ActorID is nil for system notifications.
// PostID carries the context post when the target is a comment on a post.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index:idx_notification_recipient,priority:1" json:"user_id"`
	ActorID    *uint            `gorm:"index" json:"actor_id"`
	Type       NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	TargetType TargetType       `gorm:"type:varchar(10);index:idx_notification_target" json:"target_type"`
	TargetID   uint             `gorm:"index:idx_notification_target" json:"target_id"`
	PostID     *uint            `json:"post_id"`
	IsRead     bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time        `gorm:"index:idx_notification_recipient,priority:2,sort:desc" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// Target returns the typed reference the notification points at.
func (n *Notification) Target() TargetRef {
	return TargetRef{Type: n.TargetType, ID: n.TargetID}
}
