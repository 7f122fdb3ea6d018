package service

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"gather/internal/mention"
	"gather/internal/models"
	"gather/internal/repository"
)

// resolveMentions scans text for @Display Name tokens and notifies each one
// that resolves to exactly one user other than the actor. Ambiguous and
// unknown names are skipped. Re-running over the same content is a no-op for
// already-notified recipients, which makes post/comment edits safe.
func resolveMentions(ctx context.Context, tx *gorm.DB, actorID uint, text string, typ models.NotificationType, target models.TargetRef, contextPostID *uint) error {
	names := mention.Extract(text)
	if len(names) == 0 {
		return nil
	}

	users := repository.NewUserRepository(tx)
	rec := newRecorder(tx)
	for _, name := range names {
		matches, err := users.FindByDisplayName(ctx, name)
		if err != nil {
			return err
		}
		if len(matches) != 1 {
			slog.DebugContext(ctx, "mention not resolved",
				slog.String("name", name),
				slog.Int("matches", len(matches)),
			)
			continue
		}
		if matches[0].ID == actorID {
			continue
		}
		if _, err := rec.notifyOnce(ctx, matches[0].ID, actorID, typ, target, contextPostID); err != nil {
			return err
		}
	}
	return nil
}
