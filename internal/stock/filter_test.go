package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoventory-ws/internal/model"
)

func TestFilterLowStockDefaultExcludesSmallStock(t *testing.T) {
	p := model.Product{Name: "Screws", StockQuantity: 3}

	assert.InDelta(t, 0.3, LowStockCutoff(p, nil), 1e-9)
	assert.Empty(t, FilterLowStock([]model.Product{p}, nil))
}

func TestFilterLowStockSelectsSubset(t *testing.T) {
	products := []model.Product{
		{Name: "empty", StockQuantity: 0},
		{Name: "at cutoff", StockQuantity: 20, MaxStockRecorded: 100},
		{Name: "above cutoff", StockQuantity: 21, MaxStockRecorded: 100},
		{Name: "override", StockQuantity: 40, MaxStockRecorded: 100, LowThreshold: intPtr(40)},
		{Name: "fractional", StockQuantity: 1, MaxStockRecorded: 7},
	}

	low := FilterLowStock(products, settings(20, 50))

	require.Len(t, low, 4)
	names := []string{low[0].Name, low[1].Name, low[2].Name, low[3].Name}
	assert.Equal(t, []string{"empty", "at cutoff", "override", "fractional"}, names)
}

func TestFilterLowStockNoFlooring(t *testing.T) {
	// 10% of 15 is 1.5: stock 1 is low, stock 2 is not.
	s := settings(10, 50)
	assert.True(t, IsLowStock(model.Product{StockQuantity: 1, MaxStockRecorded: 15}, s))
	assert.False(t, IsLowStock(model.Product{StockQuantity: 2, MaxStockRecorded: 15}, s))
}

func TestFilterLowStockEmptyInput(t *testing.T) {
	assert.Empty(t, FilterLowStock(nil, nil))
}
