package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/internal/models"
	"gather/internal/storage"
)

func TestApproveUserBroadcastsToEveryUser(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	admin := newAdminUser(t, db, "admin@example.com")
	newActiveUser(t, db, "alice@example.com", "Alice")
	newActiveUser(t, db, "bob@example.com", "Bob")
	carol := newPendingUser(t, db, "carol@example.com", "Carol")

	svc := NewAdminService(db, storage.NewFake())

	pending, page, err := svc.PendingUsers(ctx, admin, 1, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, carol.ID, pending[0].ID)
	assert.EqualValues(t, 1, page.Total)

	approved, err := svc.ApproveUser(ctx, admin, carol.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsActive)
	assert.True(t, approved.IsApproved)

	// Everyone hears about it, the new member included.
	var ns []models.Notification
	require.NoError(t, db.Where("type = ?", models.NotificationUserApproved).Find(&ns).Error)
	require.Len(t, ns, 4)
	for _, n := range ns {
		assert.Equal(t, models.TargetUser, n.TargetType)
		assert.Equal(t, carol.ID, n.TargetID)
		require.NotNil(t, n.ActorID)
		assert.Equal(t, admin.ID, *n.ActorID)
	}

	_, err = svc.ApproveUser(ctx, admin, carol.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "re-approval reports AlreadyApproved")
}

func TestApproveUserRequiresAdmin(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	carol := newPendingUser(t, db, "carol@example.com", "Carol")

	svc := NewAdminService(db, storage.NewFake())
	_, err := svc.ApproveUser(ctx, alice, carol.ID)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	_, _, err = svc.PendingUsers(ctx, nil, 1, 10)
	assert.True(t, models.IsCode(err, models.CodeUnauthenticated))
}

func TestRejectUserDeletesPendingAccountOnly(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	admin := newAdminUser(t, db, "admin@example.com")
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	carol := newPendingUser(t, db, "carol@example.com", "Carol")

	svc := NewAdminService(db, storage.NewFake())

	err := svc.RejectUser(ctx, admin, alice.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "activated accounts are not pending")

	err = svc.RejectUser(ctx, admin, admin.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "admins cannot be rejected")

	require.NoError(t, svc.RejectUser(ctx, admin, carol.ID))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRejectUserReleasesUploadedFiles(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	admin := newAdminUser(t, db, "admin@example.com")
	carol := newPendingUser(t, db, "carol@example.com", "Carol")

	store := storage.NewFake()
	photo := &models.Photo{UserID: carol.ID, FileRef: "gallery/9/pic.png"}
	require.NoError(t, db.Create(photo).Error)
	store.Files[photo.FileRef] = []byte("img")

	require.NoError(t, NewAdminService(db, store).RejectUser(ctx, admin, carol.ID))
	assert.Empty(t, store.Files, "rejected user's files are released")
}

func TestFlagLifecycle(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	admin := newAdminUser(t, db, "admin@example.com")
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob")
	post := createPublishedPost(t, db, alice, "P")

	comment, err := NewCommentService(db).AddComment(ctx, bob, AddCommentInput{
		Target: models.TargetRef{Type: models.TargetPost, ID: post.ID},
		Body:   "questionable",
	})
	require.NoError(t, err)

	moderation := NewModerationService(db)

	_, err = moderation.FlagComment(ctx, bob, comment.ID, "self-flag")
	assert.True(t, models.IsCode(err, models.CodeConflict), "authors cannot flag their own comments")

	flag, err := moderation.FlagComment(ctx, alice, comment.ID, "rude")
	require.NoError(t, err)

	_, err = moderation.FlagComment(ctx, alice, comment.ID, "still rude")
	assert.True(t, models.IsCode(err, models.CodeConflict), "one open flag per user per comment")

	adminSvc := NewAdminService(db, storage.NewFake())
	open, page, err := adminSvc.OpenFlags(ctx, admin, 1, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, comment.ID, open[0].CommentID)

	_, err = moderation.ResolveFlag(ctx, alice, flag.ID)
	assert.True(t, models.IsCode(err, models.CodeForbidden), "resolution is admin-only")

	resolved, err := moderation.ResolveFlag(ctx, admin, flag.ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolverID)
	assert.Equal(t, admin.ID, *resolved.ResolverID)

	_, err = moderation.ResolveFlag(ctx, admin, flag.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "double resolution reports AlreadyResolved")

	// Once resolved the user may flag again.
	_, err = moderation.FlagComment(ctx, alice, comment.ID, "again")
	require.NoError(t, err)
}
