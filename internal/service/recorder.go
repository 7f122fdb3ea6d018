package service

import (
	"context"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/observability"
	"gather/internal/repository"
)

// recorder writes notifications and activities inside the transaction of the
// mutation that caused them. Every service builds one over its current tx so
// derived events commit or roll back with the change itself.
type recorder struct {
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
	users         repository.UserRepository
}

func newRecorder(tx *gorm.DB) *recorder {
	return &recorder{
		notifications: repository.NewNotificationRepository(tx),
		activities:    repository.NewActivityRepository(tx),
		users:         repository.NewUserRepository(tx),
	}
}

// notify writes one notification for recipientID. actorID may be zero for
// system notifications.
func (r *recorder) notify(ctx context.Context, recipientID, actorID uint, typ models.NotificationType, target models.TargetRef, contextPostID *uint) error {
	n := &models.Notification{
		UserID:     recipientID,
		Type:       typ,
		TargetType: target.Type,
		TargetID:   target.ID,
		PostID:     contextPostID,
	}
	if actorID != 0 {
		n.ActorID = &actorID
	}
	if err := r.notifications.Create(ctx, n); err != nil {
		return err
	}
	observability.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
	return nil
}

// notifyOnce is notify with an idempotence check on (recipient, actor, type,
// target); it reports whether a notification was written.
func (r *recorder) notifyOnce(ctx context.Context, recipientID, actorID uint, typ models.NotificationType, target models.TargetRef, contextPostID *uint) (bool, error) {
	exists, err := r.notifications.Exists(ctx, recipientID, actorID, typ, target)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := r.notify(ctx, recipientID, actorID, typ, target, contextPostID); err != nil {
		return false, err
	}
	return true, nil
}

// broadcast notifies every user, the actor included.
func (r *recorder) broadcast(ctx context.Context, actorID uint, typ models.NotificationType, target models.TargetRef) error {
	ids, err := r.users.AllIDs(ctx)
	if err != nil {
		return err
	}
	ns := make([]*models.Notification, 0, len(ids))
	for _, id := range ids {
		n := &models.Notification{
			UserID:     id,
			Type:       typ,
			TargetType: target.Type,
			TargetID:   target.ID,
		}
		if actorID != 0 {
			actor := actorID
			n.ActorID = &actor
		}
		ns = append(ns, n)
	}
	if err := r.notifications.CreateMany(ctx, ns); err != nil {
		return err
	}
	observability.NotificationsEmitted.WithLabelValues(string(typ)).Add(float64(len(ns)))
	return nil
}

// act appends one activity entry for the actor.
func (r *recorder) act(ctx context.Context, actorID uint, typ models.ActivityType, target models.TargetRef, contextPostID *uint) error {
	err := r.activities.Create(ctx, &models.Activity{
		UserID:     actorID,
		Type:       typ,
		TargetType: target.Type,
		TargetID:   target.ID,
		PostID:     contextPostID,
	})
	if err != nil {
		return err
	}
	observability.ActivitiesRecorded.WithLabelValues(string(typ)).Inc()
	return nil
}
