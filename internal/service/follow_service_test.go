package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/internal/models"
)

func TestFollowUnfollowRoundTrip(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	alice := newActiveUser(t, db, "alice@example.com", "Alice")
	bob := newActiveUser(t, db, "bob@example.com", "Bob")

	svc := NewFollowService(db)

	err := svc.Follow(ctx, alice.ID, alice.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "self-follow is rejected")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	err = svc.Follow(ctx, alice.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "double follow reports AlreadyFollowing")

	assert.EqualValues(t, 1, notificationCount(t, db, bob.ID, models.NotificationNewFollower))
	var activities int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("user_id = ? AND type = ?", alice.ID, models.ActivityStartedFollowing).
		Count(&activities).Error)
	assert.EqualValues(t, 1, activities)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	var links int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&links).Error)
	assert.Zero(t, links)
	// The historical notification stays.
	assert.EqualValues(t, 1, notificationCount(t, db, bob.ID, models.NotificationNewFollower))

	err = svc.Unfollow(ctx, alice.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeConflict), "unfollowing again reports NotFollowing")
}

func TestFollowersPagination(t *testing.T) {
	t.Parallel()

	db := setupServiceDB(t)
	ctx := context.Background()
	bob := newActiveUser(t, db, "bob@example.com", "Bob")

	svc := NewFollowService(db)
	for _, email := range []string{"f1@example.com", "f2@example.com", "f3@example.com"} {
		follower := newActiveUser(t, db, email, email)
		require.NoError(t, svc.Follow(ctx, follower.ID, bob.ID))
	}

	users, page, err := svc.Followers(ctx, bob.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	users, page, err = svc.Followers(ctx, bob.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}
