package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category   *Category  `gorm:"constraint:OnDelete:RESTRICT;" json:"category,omitempty" validate:"-"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"constraint:OnDelete:SET NULL;" json:"supplier,omitempty" validate:"-"`

	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity" validate:"min=0"`

	// Threshold tracking. In tracked mode LowThreshold/MediumThreshold are
	// absolute quantities, otherwise percentages of MaxStockRecorded.
	IsTracked        bool `gorm:"default:false" json:"is_tracked"`
	MaxStockRecorded int  `gorm:"not null;default:0" json:"max_stock_recorded"`
	LowThreshold     *int `json:"low_threshold,omitempty" validate:"omitempty,min=1,max=100"`
	MediumThreshold  *int `json:"medium_threshold,omitempty" validate:"omitempty,min=1,max=100"`

	Transactions []StockTransaction `gorm:"constraint:OnDelete:CASCADE;" json:"transactions,omitempty" validate:"-"`
}

// RecordHighWater raises MaxStockRecorded to the current stock when exceeded.
// It never lowers the mark.
func (p *Product) RecordHighWater() {
	if p.StockQuantity > p.MaxStockRecorded {
		p.MaxStockRecorded = p.StockQuantity
	}
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.RecordHighWater()
	return nil
}
