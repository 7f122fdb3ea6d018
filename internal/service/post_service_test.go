package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/internal/models"
)

func TestCreatePostDeduplicatesTags(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")

	post, err := NewPostService(db).CreatePost(ctx, CreatePostInput{
		AuthorID:  alice.ID,
		Content:   "tagged post",
		TagString: "A, a, ,A ",
	})
	require.NoError(t, err)

	var tags []models.Tag
	require.NoError(t, db.Find(&tags).Error)
	require.Len(t, tags, 1)
	assert.Equal(t, "a", tags[0].Slug)
	assert.Equal(t, "A", tags[0].Name, "first spelling wins for a new tag")

	loaded, err := NewPostService(db).GetPost(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Tags, 1)
}

func TestCreatePostReusesTagsBySlugAndDropsUnknownCategories(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	require.NoError(t, db.Create(&models.Tag{Name: "Go Lang", Slug: "go-lang"}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "News", Slug: "news"}).Error)

	post, err := NewPostService(db).CreatePost(ctx, CreatePostInput{
		AuthorID:    alice.ID,
		Content:     "reuse",
		TagString:   "go lang",
		CategoryIDs: []uint{1, 999},
	})
	require.NoError(t, err)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount, "existing tag is reused by slug")

	loaded, err := NewPostService(db).GetPost(ctx, alice, post.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Categories, 1)
	assert.Equal(t, "news", loaded.Categories[0].Slug)
}

func TestCreatePostEmitsActivityAndResolvesMentions(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob Jones")

	post, err := NewPostService(db).CreatePost(ctx, CreatePostInput{
		AuthorID: alice.ID,
		Content:  "shout out to @Bob Jones!",
	})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)

	var activity models.Activity
	require.NoError(t, db.Where("user_id = ? AND type = ?", alice.ID, models.ActivityCreatedPost).
		First(&activity).Error)
	assert.Equal(t, models.TargetPost, activity.TargetType)
	assert.Equal(t, post.ID, activity.TargetID)

	var n models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", bob.ID, models.NotificationMentionInPost).
		First(&n).Error)
	assert.Equal(t, post.ID, n.TargetID)
	require.NotNil(t, n.PostID)
	assert.Equal(t, post.ID, *n.PostID)
}

func TestUpdatePostRequiresAuthorOrAdmin(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob")
	admin := newAdminUser(t, db, "admin@example.com")
	post := createPublishedPost(t, db, alice, "original")

	svc := NewPostService(db)
	_, err := svc.UpdatePost(ctx, bob, UpdatePostInput{PostID: post.ID, Content: "hijack"})
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	updated, err := svc.UpdatePost(ctx, admin, UpdatePostInput{PostID: post.ID, Content: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)
}

func TestDeletePostCascadesButKeepsUnrelatedActivities(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob")
	carol := newActiveUser(t, db, "carol@example.com", "Carol")

	// An unrelated activity that must survive the cascade.
	require.NoError(t, NewFollowService(db).Follow(ctx, alice.ID, carol.ID))

	post := createPublishedPost(t, db, alice, "P")
	comments := NewCommentService(db)
	likes := NewLikeService(db)
	moderation := NewModerationService(db)

	target := models.TargetRef{Type: models.TargetPost, ID: post.ID}
	var flagged *models.Comment
	for _, body := range []string{"one", "two", "three"} {
		c, err := comments.AddComment(ctx, bob, AddCommentInput{Target: target, Body: body})
		require.NoError(t, err)
		flagged = c
	}
	require.NoError(t, likes.Like(ctx, bob, target))
	require.NoError(t, likes.Like(ctx, carol, target))
	_, err := moderation.FlagComment(ctx, carol, flagged.ID, "spam")
	require.NoError(t, err)

	require.NoError(t, NewPostService(db).DeletePost(ctx, alice, post.ID))

	for _, model := range []any{
		&models.Post{}, &models.Comment{}, &models.Like{}, &models.CommentFlag{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("type <> ?", models.NotificationNewFollower).
		Count(&notifications).Error)
	assert.Zero(t, notifications, "every post-related notification is gone")

	var survivors int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type = ?", models.ActivityStartedFollowing).
		Count(&survivors).Error)
	assert.EqualValues(t, 1, survivors)
	var others int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type <> ?", models.ActivityStartedFollowing).
		Count(&others).Error)
	assert.Zero(t, others)
}

func TestDraftVisibilityIsAuthorAndAdminOnly(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob")
	admin := newAdminUser(t, db, "admin@example.com")

	draft := &models.Post{UserID: alice.ID, Content: "wip"}
	require.NoError(t, db.Create(draft).Error)

	svc := NewPostService(db)
	_, err := svc.GetPost(ctx, bob, draft.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = svc.GetPost(ctx, alice, draft.ID)
	require.NoError(t, err)
	_, err = svc.GetPost(ctx, admin, draft.ID)
	require.NoError(t, err)

	visible, _, err := svc.ListByUser(ctx, bob, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, visible)

	own, _, err := svc.ListByUser(ctx, alice, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
