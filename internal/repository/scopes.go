package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/stock"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// SQLite has no row locks and already serializes writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lowStockScope is the SQL rendition of stock.IsLowStock, evaluated by the
// database so the low-stock set is computed without loading every product.
// The two must stay in lockstep: a change to one is a change to both, and
// TestFindLowStockMatchesInMemoryFilter checks they select the same rows.
func lowStockScope(settings *model.InventorySettings) func(*gorm.DB) *gorm.DB {
	lowPct := stock.FallbackLowPercentage
	if settings != nil {
		lowPct = settings.LowPercentage
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`stock_quantity <= COALESCE(low_threshold, ?) / 100.0 *
			CASE WHEN max_stock_recorded > 0 THEN max_stock_recorded ELSE stock_quantity END`, lowPct)
	}
}
