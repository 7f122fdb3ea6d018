package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gather/internal/models"
)

// Options controls how much demo data Run generates.
type Options struct {
	Users         int
	PostsPerUser  int
	PhotosPerUser int
	// Seed makes the run reproducible when non-zero.
	Seed int64
}

// EnsureAdmin creates an active admin account, or promotes the existing
// account with that email.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password, displayName string) (*models.User, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	var user models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		user.IsAdmin = true
		user.IsApproved = true
		user.IsActive = true
		if err := db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email:           email,
			Password:        string(digest),
			DisplayName:     displayName,
			IsProfilePublic: true,
			IsAdmin:         true,
			IsApproved:      true,
			IsActive:        true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("look up admin: %w", err)
	}
}

// Settings upserts the default site settings without overwriting values an
// admin already changed.
func Settings(ctx context.Context, db *gorm.DB) error {
	defaults := []models.Setting{
		{Key: models.SettingSiteTitle, Value: "Gather", ValueType: models.SettingString},
		{Key: models.SettingPostsPerPage, Value: "10", ValueType: models.SettingInt},
		{Key: models.SettingAllowRegistrations, Value: "true", ValueType: models.SettingBool},
	}
	for _, s := range defaults {
		err := db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&s).Error
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
	}
	return nil
}

// Run fills the database with a social mesh: members, a follow graph, posts
// with tags, photos, threaded comments, and likes. It is additive; call
// database.Reset first for a clean slate.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	if opts.Users < 1 {
		opts.Users = 10
	}
	if opts.PostsPerUser < 0 {
		opts.PostsPerUser = 0
	}
	if opts.PhotosPerUser < 0 {
		opts.PhotosPerUser = 0
	}

	if err := Settings(ctx, db); err != nil {
		return err
	}

	f, err := NewFactory(db, opts.Seed)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.User(ctx)
		if err != nil {
			return err
		}
		users = append(users, u)
	}
	// One straggler stays pending so the admin approval queue has content.
	if _, err := f.User(ctx, func(u *models.User) {
		u.IsApproved = false
		u.IsActive = false
	}); err != nil {
		return err
	}

	// Each member follows roughly a third of the others.
	for _, follower := range users {
		for _, followee := range users {
			if f.faker.Number(0, 2) == 0 {
				if err := f.Follow(ctx, follower, followee); err != nil {
					return err
				}
			}
		}
	}

	var interactables []models.TargetRef
	for _, author := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.Post(ctx, author)
			if err != nil {
				return err
			}
			interactables = append(interactables, models.TargetRef{Type: models.TargetPost, ID: post.ID})
		}
		for i := 0; i < opts.PhotosPerUser; i++ {
			photo, err := f.Photo(ctx, author)
			if err != nil {
				return err
			}
			interactables = append(interactables, models.TargetRef{Type: models.TargetPhoto, ID: photo.ID})
		}
	}

	// Sprinkle comments and likes over everything, with the occasional reply.
	for _, target := range interactables {
		for i := 0; i < f.faker.Number(0, 3); i++ {
			author := users[f.faker.Number(0, len(users)-1)]
			comment, err := f.Comment(ctx, author, target, nil)
			if err != nil {
				return err
			}
			if f.faker.Number(0, 3) == 0 {
				replier := users[f.faker.Number(0, len(users)-1)]
				if _, err := f.Comment(ctx, replier, target, &comment.ID); err != nil {
					return err
				}
			}
		}
		for i := 0; i < f.faker.Number(0, 4); i++ {
			liker := users[f.faker.Number(0, len(users)-1)]
			if err := f.Like(ctx, liker, target); err != nil {
				return err
			}
		}
	}

	slog.InfoContext(ctx, "seed complete",
		"users", len(users)+1,
		"targets", len(interactables))
	return nil
}
