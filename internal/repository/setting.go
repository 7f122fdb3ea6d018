package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gather/internal/models"
)

// SettingRepository persists site-wide settings.
type SettingRepository interface {
	// Get returns nil when the key has never been stored.
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	All(ctx context.Context) ([]*models.Setting, error)
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewStorageFailureError("get setting", err)
	}
	return &s, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "updated_at"}),
		}).
		Create(setting).Error
	if err != nil {
		return models.NewStorageFailureError("upsert setting", err)
	}
	return nil
}

func (r *settingRepository) All(ctx context.Context) ([]*models.Setting, error) {
	var ss []*models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&ss).Error; err != nil {
		return nil, models.NewStorageFailureError("list settings", err)
	}
	return ss, nil
}
