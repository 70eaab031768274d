package stock

import "innoventory-ws/internal/model"

// LowStockCutoff is the float cutoff used by the low-stock query:
// low percentage of the high-water mark, or of the current stock when no
// mark was recorded. Unlike ResolveThresholds there is no flooring.
func LowStockCutoff(p model.Product, settings *model.InventorySettings) float64 {
	lowPct := FallbackLowPercentage
	if settings != nil {
		lowPct = settings.LowPercentage
	}
	if p.LowThreshold != nil {
		lowPct = *p.LowThreshold
	}

	base := p.MaxStockRecorded
	if base <= 0 {
		base = p.StockQuantity
	}
	return float64(lowPct) / 100 * float64(base)
}

// IsLowStock reports whether p is at or below its low-stock cutoff.
func IsLowStock(p model.Product, settings *model.InventorySettings) bool {
	return float64(p.StockQuantity) <= LowStockCutoff(p, settings)
}

// FilterLowStock returns the products at or below their cutoff, keeping order.
func FilterLowStock(products []model.Product, settings *model.InventorySettings) []model.Product {
	low := make([]model.Product, 0)
	for _, p := range products {
		if IsLowStock(p, settings) {
			low = append(low, p)
		}
	}
	return low
}
