package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gather/internal/database"
	"gather/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Email:       name + "@example.com",
		Password:    "hashed",
		DisplayName: name,
		IsApproved:  true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestLikeInsertIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "liker")
	author := createTestUser(t, db, "author")

	post := &models.Post{UserID: author.ID, Content: "hello"}
	require.NoError(t, db.Create(post).Error)
	target := models.TargetRef{Type: models.TargetPost, ID: post.ID}

	repo := NewLikeRepository(db)

	created, err := repo.Insert(ctx, user.ID, target)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Insert(ctx, user.ID, target)
	require.NoError(t, err)
	assert.False(t, created, "duplicate like must collapse via ON CONFLICT")

	count, err := repo.CountByTarget(ctx, target)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	removed, err := repo.Delete(ctx, user.ID, target)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, user.ID, target)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCommentFlaggedActiveDerived(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author")
	flagger := createTestUser(t, db, "flagger")

	post := &models.Post{UserID: author.ID, Content: "post"}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{
		UserID:     author.ID,
		Body:       "rude remark",
		TargetType: models.TargetPost,
		TargetID:   post.ID,
	}
	require.NoError(t, db.Create(comment).Error)

	comments := NewCommentRepository(db)
	flags := NewFlagRepository(db)

	got, err := comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.False(t, got.FlaggedActive)

	flag := &models.CommentFlag{CommentID: comment.ID, FlaggerID: flagger.ID, Reason: "spam"}
	require.NoError(t, flags.Create(ctx, flag))

	got, err = comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, got.FlaggedActive)

	require.NoError(t, flags.Resolve(ctx, flag, author.ID))

	got, err = comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.False(t, got.FlaggedActive, "resolved flags no longer mark the comment")
}

func TestNotificationExistsAndMarkAllRead(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")

	repo := NewNotificationRepository(db)
	target := models.TargetRef{Type: models.TargetPost, ID: 7}

	exists, err := repo.Exists(ctx, recipient.ID, actor.ID, models.NotificationMentionInPost, target)
	require.NoError(t, err)
	assert.False(t, exists)

	n := &models.Notification{
		UserID:     recipient.ID,
		ActorID:    &actor.ID,
		Type:       models.NotificationMentionInPost,
		TargetType: target.Type,
		TargetID:   target.ID,
	}
	require.NoError(t, repo.Create(ctx, n))

	exists, err = repo.Exists(ctx, recipient.ID, actor.ID, models.NotificationMentionInPost, target)
	require.NoError(t, err)
	assert.True(t, exists)

	unread, err := repo.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	updated, err := repo.MarkAllRead(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	unread, err = repo.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestSettingUpsertOverwrites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSettingRepository(db)

	got, err := repo.Get(ctx, models.SettingSiteTitle)
	require.NoError(t, err)
	assert.Nil(t, got, "missing key reads as nil")

	require.NoError(t, repo.Upsert(ctx, &models.Setting{
		Key: models.SettingSiteTitle, Value: "Gather", ValueType: models.SettingString,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.Setting{
		Key: models.SettingSiteTitle, Value: "Gather Beta", ValueType: models.SettingString,
	}))

	got, err = repo.Get(ctx, models.SettingSiteTitle)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Gather Beta", got.Value)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeletePostCascade(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")

	post := &models.Post{UserID: author.ID, Content: "doomed"}
	require.NoError(t, db.Create(post).Error)

	root := &models.Comment{
		UserID: commenter.ID, Body: "first",
		TargetType: models.TargetPost, TargetID: post.ID,
	}
	require.NoError(t, db.Create(root).Error)
	reply := &models.Comment{
		UserID: author.ID, Body: "reply",
		TargetType: models.TargetPost, TargetID: post.ID, ParentID: &root.ID,
	}
	require.NoError(t, db.Create(reply).Error)

	require.NoError(t, db.Create(&models.Like{
		UserID: commenter.ID, TargetType: models.TargetPost, TargetID: post.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Like{
		UserID: author.ID, TargetType: models.TargetComment, TargetID: root.ID,
	}).Error)
	require.NoError(t, db.Create(&models.CommentFlag{
		CommentID: reply.ID, FlaggerID: commenter.ID, Reason: "rude",
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: author.ID, ActorID: &commenter.ID,
		Type: models.NotificationNewComment, TargetType: models.TargetComment, TargetID: root.ID,
		PostID: &post.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Activity{
		UserID: commenter.ID, Type: models.ActivityCommentedOnPost,
		TargetType: models.TargetComment, TargetID: root.ID, PostID: &post.ID,
	}).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return DeletePostCascade(tx, post.ID)
	}))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.CommentFlag{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	assert.Zero(t, count)

	// The authors themselves survive.
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteUserCascadeReturnsFileRefs(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	victim := createTestUser(t, db, "victim")
	other := createTestUser(t, db, "other")

	photo := &models.Photo{UserID: victim.ID, FileRef: "gallery/1/abc.png", Caption: "sunset"}
	require.NoError(t, db.Create(photo).Error)

	// A comment the victim left on someone else's post, with a reply from
	// the other user underneath it.
	post := &models.Post{UserID: other.ID, Content: "keeper"}
	require.NoError(t, db.Create(post).Error)
	root := &models.Comment{
		UserID: victim.ID, Body: "mine",
		TargetType: models.TargetPost, TargetID: post.ID,
	}
	require.NoError(t, db.Create(root).Error)
	reply := &models.Comment{
		UserID: other.ID, Body: "theirs",
		TargetType: models.TargetPost, TargetID: post.ID, ParentID: &root.ID,
	}
	require.NoError(t, db.Create(reply).Error)

	require.NoError(t, db.Create(&models.Follow{FollowerID: other.ID, FolloweeID: victim.ID}).Error)

	// A flag on the other user's own comment that the victim resolved; it
	// must ride down with the resolver, the comment must not.
	kept := &models.Comment{
		UserID: other.ID, Body: "standalone",
		TargetType: models.TargetPost, TargetID: post.ID,
	}
	require.NoError(t, db.Create(kept).Error)
	require.NoError(t, db.Create(&models.CommentFlag{
		CommentID:  kept.ID,
		FlaggerID:  other.ID,
		Reason:     "spam",
		IsResolved: true,
		ResolverID: &victim.ID,
	}).Error)

	var refs []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refs, err = DeleteUserCascade(tx, victim.ID)
		return err
	}))
	assert.Equal(t, []string{"gallery/1/abc.png"}, refs)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.Photo{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)

	// The reply rode down with the victim's comment; the other user's post
	// and standalone comment are untouched.
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The flag the victim resolved is gone with them.
	require.NoError(t, db.Model(&models.CommentFlag{}).Count(&count).Error)
	assert.Zero(t, count)
}
