// Package seed creates demo and development data. It writes through the
// repositories' tables directly and is never linked into the API server.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gather/internal/models"
	"gather/internal/slug"
)

// DefaultPassword is the password every generated account gets.
const DefaultPassword = "password123"

// Factory builds and persists sample entities. All generated accounts share
// one bcrypt digest so large seeds do not spend their time hashing.
type Factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	digest string
}

// NewFactory returns a Factory over db. A non-zero seed makes the generated
// data reproducible.
func NewFactory(db *gorm.DB, seed int64) (*Factory, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{db: db, faker: gofakeit.New(seed), digest: string(digest)}, nil
}

// backdate returns a timestamp up to maxDays in the past so feeds look lived-in.
func (f *Factory) backdate(maxDays int) time.Time {
	if maxDays < 1 {
		maxDays = 1
	}
	offset := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-offset)
}

// User persists a sample member, active and approved by default.
func (f *Factory) User(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:           f.faker.Email(),
		Password:        f.digest,
		DisplayName:     f.faker.Name(),
		Bio:             f.faker.Sentence(12),
		Website:         f.faker.URL(),
		City:            f.faker.City(),
		Country:         f.faker.Country(),
		IsProfilePublic: f.faker.Number(0, 9) > 1,
		IsApproved:      true,
		IsActive:        true,
		CreatedAt:       f.backdate(365),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}

// Post persists a published sample post by author, attaching up to three
// reused-or-created tags.
func (f *Factory) Post(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	created := f.backdate(90)
	post := &models.Post{
		UserID:      author.ID,
		Content:     f.faker.Paragraph(1, 3, 12, "\n\n"),
		IsPublished: true,
		PublishedAt: &created,
		CreatedAt:   created,
	}
	for _, override := range overrides {
		override(post)
	}

	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		tags, err := f.tags(tx, f.faker.Number(0, 3))
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(post).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	return post, nil
}

// tags finds or creates n tags drawn from a small themed vocabulary so the
// tag pages fill up instead of every post minting fresh tags.
func (f *Factory) tags(tx *gorm.DB, n int) ([]models.Tag, error) {
	vocabulary := []string{
		"Gardening", "Travel", "Cooking", "Photography", "Music",
		"Books", "Hiking", "Family", "Projects", "Announcements",
	}
	tags := make([]models.Tag, 0, n)
	seen := map[string]bool{}
	for len(tags) < n {
		name := vocabulary[f.faker.Number(0, len(vocabulary)-1)]
		s := slug.Make(name)
		if seen[s] {
			continue
		}
		seen[s] = true
		tag := models.Tag{Name: name, Slug: s}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return nil, err
		}
		// OnConflict leaves ID zero when the tag already existed.
		if tag.ID == 0 {
			if err := tx.Where("slug = ?", s).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Photo persists a sample gallery photo. The file ref points into the
// store's gallery area but no actual file is written; demo data only.
func (f *Factory) Photo(ctx context.Context, owner *models.User) (*models.Photo, error) {
	photo := &models.Photo{
		UserID:    owner.ID,
		FileRef:   fmt.Sprintf("gallery/%d/%s.jpg", owner.ID, f.faker.UUID()),
		Caption:   f.faker.Sentence(6),
		CreatedAt: f.backdate(90),
	}
	if err := f.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, fmt.Errorf("seed photo: %w", err)
	}
	return photo, nil
}

// Comment persists a sample comment by author on target. parent may be nil.
func (f *Factory) Comment(ctx context.Context, author *models.User, target models.TargetRef, parent *uint) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:     author.ID,
		Body:       f.faker.Sentence(f.faker.Number(4, 15)),
		TargetType: target.Type,
		TargetID:   target.ID,
		ParentID:   parent,
	}
	if err := f.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}
	return comment, nil
}

// Like records user liking target, ignoring duplicates.
func (f *Factory) Like(ctx context.Context, user *models.User, target models.TargetRef) error {
	like := &models.Like{
		UserID:     user.ID,
		TargetType: target.Type,
		TargetID:   target.ID,
	}
	err := f.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
	if err != nil {
		return fmt.Errorf("seed like: %w", err)
	}
	return nil
}

// Follow records follower following followee, ignoring duplicates and
// self-follows.
func (f *Factory) Follow(ctx context.Context, follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	err := f.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
	if err != nil {
		return fmt.Errorf("seed follow: %w", err)
	}
	return nil
}
