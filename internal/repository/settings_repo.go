package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/stock"
)

type SettingsRepository interface {
	// Get returns stock.ErrConfigurationMissing when no row exists.
	Get(ctx context.Context) (*model.InventorySettings, error)
	Save(ctx context.Context, settings *model.InventorySettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.InventorySettings, error) {
	var settings model.InventorySettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", model.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, stock.ErrConfigurationMissing
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save upserts the singleton row; the ID is forced to model.SettingsID.
func (r *settingsRepo) Save(ctx context.Context, settings *model.InventorySettings) error {
	settings.ID = model.SettingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"low_percentage", "medium_percentage", "updated_at", "updated_by"}),
	}).Create(settings).Error
}
