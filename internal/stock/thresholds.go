// Package stock holds the inventory rules: threshold resolution, status
// classification, low-stock selection and the stock movement arithmetic.
// Settings are always passed in; a nil *model.InventorySettings means no
// settings row exists.
package stock

import "innoventory-ws/internal/model"

// Fallback percentages used when no settings row exists.
const (
	FallbackLowPercentage    = 10
	FallbackMediumPercentage = 50
)

// Percentages returns the effective low and medium percentages for p.
// Per-product overrides win, then settings, then the fallbacks.
func Percentages(p model.Product, settings *model.InventorySettings) (lowPct, mediumPct int) {
	lowPct, mediumPct = FallbackLowPercentage, FallbackMediumPercentage
	if settings != nil {
		lowPct, mediumPct = settings.LowPercentage, settings.MediumPercentage
	}
	if p.LowThreshold != nil {
		lowPct = *p.LowThreshold
	}
	if p.MediumThreshold != nil {
		mediumPct = *p.MediumThreshold
	}
	return lowPct, mediumPct
}

// ResolveThresholds returns the absolute low and medium cutoff quantities
// for p. The base is the high-water mark, or the current stock (at least 1)
// when nothing was recorded yet. The result always satisfies
// 1 <= low < medium.
func ResolveThresholds(p model.Product, settings *model.InventorySettings) (lowQty, mediumQty int) {
	lowPct, mediumPct := Percentages(p, settings)

	base := p.MaxStockRecorded
	if base <= 0 {
		base = max(p.StockQuantity, 1)
	}

	lowQty = max(1, floorPercent(lowPct, base))
	mediumQty = max(lowQty+1, floorPercent(mediumPct, base))
	return lowQty, mediumQty
}

// floorPercent is floor(pct/100 * base) for non-negative inputs, computed
// exactly in integers. Float evaluation gives 0.29*100 = 28.999..., so
// 29% of 100 is 29 here where a float floor yields 28.
func floorPercent(pct, base int) int {
	if pct <= 0 || base <= 0 {
		return 0
	}
	return pct * base / 100
}
