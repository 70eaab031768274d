package model

import "time"

// SettingsID is the primary key of the only InventorySettings row.
const SettingsID uint = 1

const (
	DefaultSettingsLowPercentage    = 20
	DefaultSettingsMediumPercentage = 50
)

// InventorySettings holds the global threshold percentages used when a
// product has no per-product override.
type InventorySettings struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LowPercentage    int       `gorm:"not null;default:20" json:"low_percentage" validate:"min=1,max=100"`
	MediumPercentage int       `gorm:"not null;default:50" json:"medium_percentage" validate:"min=1,max=100"`
	UpdatedAt        time.Time `json:"updated_at"`
	UpdatedBy        string    `json:"updated_by"`
}

func (InventorySettings) TableName() string {
	return "inventory_settings"
}

// DefaultSettings returns the values a freshly created settings row gets.
func DefaultSettings() InventorySettings {
	return InventorySettings{
		ID:               SettingsID,
		LowPercentage:    DefaultSettingsLowPercentage,
		MediumPercentage: DefaultSettingsMediumPercentage,
	}
}
