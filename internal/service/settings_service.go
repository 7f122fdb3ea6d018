package service

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"gather/internal/cache"
	"gather/internal/models"
	"gather/internal/repository"
)

// Defaults used when a setting is missing or holds an uncoercible value.
const (
	DefaultSiteTitle          = "Gather"
	DefaultPostsPerPage       = 10
	DefaultAllowRegistrations = true
)

// SettingsService reads typed site settings through the cache and writes
// them with a change broadcast.
type SettingsService struct {
	db     *gorm.DB
	policy Policy
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// get reads one setting through the cache-aside path. A missing key yields
// nil.
func (s *SettingsService) get(ctx context.Context, key string) *models.Setting {
	var setting models.Setting
	found := false
	err := cache.Aside(ctx, cache.SettingKey(key), &setting, cache.SettingTTL, func() error {
		stored, err := repository.NewSettingRepository(s.db).Get(ctx, key)
		if err != nil {
			return err
		}
		if stored == nil {
			return nil
		}
		setting = *stored
		found = true
		return nil
	})
	if err != nil {
		return nil
	}
	// A cache hit deserializes straight into setting.
	if !found && setting.Key == "" {
		return nil
	}
	return &setting
}

// GetString returns the stored value or def when missing.
func (s *SettingsService) GetString(ctx context.Context, key, def string) string {
	setting := s.get(ctx, key)
	if setting == nil || setting.Value == "" {
		return def
	}
	return setting.Value
}

// GetInt coerces the stored value; anything unparseable falls back to def.
func (s *SettingsService) GetInt(ctx context.Context, key string, def int) int {
	setting := s.get(ctx, key)
	if setting == nil {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(setting.Value))
	if err != nil {
		return def
	}
	return n
}

// GetBool coerces the stored value; {true, 1, yes, on} case-insensitive read
// as true, everything else as false.
func (s *SettingsService) GetBool(ctx context.Context, key string, def bool) bool {
	setting := s.get(ctx, key)
	if setting == nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(setting.Value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// SiteTitle is the configured site name.
func (s *SettingsService) SiteTitle(ctx context.Context) string {
	return s.GetString(ctx, models.SettingSiteTitle, DefaultSiteTitle)
}

// PostsPerPage is the feed page size; non-positive stored values coerce to
// the default.
func (s *SettingsService) PostsPerPage(ctx context.Context) int {
	n := s.GetInt(ctx, models.SettingPostsPerPage, DefaultPostsPerPage)
	if n < 1 {
		return DefaultPostsPerPage
	}
	return n
}

// AllowRegistrations reports whether new signups are accepted.
func (s *SettingsService) AllowRegistrations(ctx context.Context) bool {
	return s.GetBool(ctx, models.SettingAllowRegistrations, DefaultAllowRegistrations)
}

// All lists every stored setting. Admin only.
func (s *SettingsService) All(ctx context.Context, admin *models.User) ([]*models.Setting, error) {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return nil, err
	}
	return repository.NewSettingRepository(s.db).All(ctx)
}

// Set stores a setting and broadcasts the change to every user in the same
// transaction. The cache entry is dropped after commit.
func (s *SettingsService) Set(ctx context.Context, admin *models.User, key, value string, valueType models.SettingType) error {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return err
	}
	switch valueType {
	case models.SettingString, models.SettingInt, models.SettingBool:
	default:
		return models.NewValidationError("value type must be string, int, or bool")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		setting := &models.Setting{Key: key, Value: value, ValueType: valueType}
		if err := repository.NewSettingRepository(tx).Upsert(ctx, setting); err != nil {
			return err
		}
		// Setting changes carry no target, only the acting admin.
		return newRecorder(tx).broadcast(ctx, admin.ID,
			models.NotificationSiteSettingChange, models.TargetRef{})
	})
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.SettingKey(key))
	return nil
}
