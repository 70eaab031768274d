package stock

import "innoventory-ws/internal/model"

type Status string

const (
	StatusHigh    Status = "high"
	StatusMedium  Status = "medium"
	StatusLow     Status = "low"
	StatusUnknown Status = "unknown"
)

type DisplayCategory string

const (
	DisplaySuccess DisplayCategory = "success"
	DisplayWarning DisplayCategory = "warning"
	DisplayDanger  DisplayCategory = "danger"
)

// Classify labels the current stock of p.
//
// A tracked product with both thresholds set compares its stock against the
// thresholds as absolute quantities. Everything else is measured against the
// global percentages of MaxStockRecorded, and is unknown without settings.
// This is a separate computation from DisplayCategoryOf; the two may
// disagree near the cutoffs.
func Classify(p model.Product, settings *model.InventorySettings) Status {
	if p.IsTracked && p.LowThreshold != nil && p.MediumThreshold != nil {
		return bucket(float64(p.StockQuantity), float64(*p.LowThreshold), float64(*p.MediumThreshold))
	}
	if settings == nil {
		return StatusUnknown
	}

	peak := float64(p.MaxStockRecorded)
	low := float64(settings.LowPercentage) / 100 * peak
	medium := float64(settings.MediumPercentage) / 100 * peak
	return bucket(float64(p.StockQuantity), low, medium)
}

func bucket(qty, low, medium float64) Status {
	switch {
	case qty > medium:
		return StatusHigh
	case qty > low:
		return StatusMedium
	default:
		return StatusLow
	}
}

// DisplayCategoryOf maps p onto a presentation class using the resolved
// cutoffs from ResolveThresholds.
func DisplayCategoryOf(p model.Product, settings *model.InventorySettings) DisplayCategory {
	lowQty, mediumQty := ResolveThresholds(p, settings)
	switch {
	case p.StockQuantity <= lowQty:
		return DisplayDanger
	case p.StockQuantity <= mediumQty:
		return DisplayWarning
	default:
		return DisplaySuccess
	}
}

// ProductView is a product together with its derived stock state.
type ProductView struct {
	model.Product
	Status          Status          `json:"status"`
	DisplayCategory DisplayCategory `json:"display_category"`
	LowQuantity     int             `json:"low_quantity"`
	MediumQuantity  int             `json:"medium_quantity"`
}

func NewProductView(p model.Product, settings *model.InventorySettings) ProductView {
	lowQty, mediumQty := ResolveThresholds(p, settings)
	return ProductView{
		Product:         p,
		Status:          Classify(p, settings),
		DisplayCategory: DisplayCategoryOf(p, settings),
		LowQuantity:     lowQty,
		MediumQuantity:  mediumQty,
	}
}
