package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gather/internal/database"
	"gather/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
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

func newActiveUser(t *testing.T, db *gorm.DB, email, displayName string) *models.User {
	t.Helper()
	u := &models.User{
		Email:           email,
		Password:        "digest",
		DisplayName:     displayName,
		IsProfilePublic: true,
		IsApproved:      true,
		IsActive:        true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newAdminUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:           email,
		Password:        "digest",
		DisplayName:     "Admin",
		IsProfilePublic: true,
		IsAdmin:         true,
		IsApproved:      true,
		IsActive:        true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newPendingUser(t *testing.T, db *gorm.DB, email, displayName string) *models.User {
	t.Helper()
	u := &models.User{
		Email:           email,
		Password:        "digest",
		DisplayName:     displayName,
		IsProfilePublic: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createPublishedPost(t *testing.T, db *gorm.DB, author *models.User, content string) *models.Post {
	t.Helper()
	post, err := NewPostService(db).CreatePost(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Content:  content,
	})
	require.NoError(t, err)
	return post
}

func notificationCount(t *testing.T, db *gorm.DB, recipientID uint, typ models.NotificationType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", recipientID, typ).
		Count(&n).Error)
	return n
}
