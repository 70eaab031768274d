package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innoventory-ws/internal/model"
)

func intPtr(v int) *int { return &v }

func settings(low, medium int) *model.InventorySettings {
	return &model.InventorySettings{ID: model.SettingsID, LowPercentage: low, MediumPercentage: medium}
}

func TestResolveThresholdsUsesStockWhenNoHighWater(t *testing.T) {
	p := model.Product{StockQuantity: 5}

	low, medium := ResolveThresholds(p, settings(20, 50))

	assert.Equal(t, 1, low)
	assert.Equal(t, 2, medium)
	assert.Equal(t, DisplaySuccess, DisplayCategoryOf(p, settings(20, 50)))
}

func TestResolveThresholdsScalesHighWater(t *testing.T) {
	p := model.Product{StockQuantity: 40, MaxStockRecorded: 200}

	low, medium := ResolveThresholds(p, settings(20, 50))

	assert.Equal(t, 40, low)
	assert.Equal(t, 100, medium)
}

func TestResolveThresholdsProductOverrides(t *testing.T) {
	p := model.Product{MaxStockRecorded: 100, LowThreshold: intPtr(29), MediumThreshold: intPtr(70)}

	low, medium := ResolveThresholds(p, settings(20, 50))

	assert.Equal(t, 29, low)
	assert.Equal(t, 70, medium)
}

func TestResolveThresholdsFallbackWithoutSettings(t *testing.T) {
	p := model.Product{MaxStockRecorded: 100}

	low, medium := ResolveThresholds(p, nil)

	assert.Equal(t, FallbackLowPercentage, low)
	assert.Equal(t, FallbackMediumPercentage, medium)
}

func TestResolveThresholdsZeroStockNeverZeroBase(t *testing.T) {
	p := model.Product{}

	low, medium := ResolveThresholds(p, settings(20, 50))

	assert.Equal(t, 1, low)
	assert.Equal(t, 2, medium)
}

func TestResolveThresholdsAlwaysOrdered(t *testing.T) {
	cases := []struct {
		name     string
		product  model.Product
		settings *model.InventorySettings
	}{
		{"equal percentages", model.Product{MaxStockRecorded: 10}, settings(50, 50)},
		{"inverted percentages", model.Product{MaxStockRecorded: 10}, settings(90, 10)},
		{"tiny base", model.Product{StockQuantity: 1}, settings(100, 100)},
		{"huge base", model.Product{MaxStockRecorded: 1_000_000}, settings(1, 2)},
		{"override only low", model.Product{MaxStockRecorded: 3, LowThreshold: intPtr(99)}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			low, medium := ResolveThresholds(tc.product, tc.settings)
			assert.GreaterOrEqual(t, low, 1)
			assert.Less(t, low, medium)
		})
	}
}

func TestDisplayCategoryBands(t *testing.T) {
	s := settings(20, 50)
	base := model.Product{MaxStockRecorded: 100}

	cases := []struct {
		stock int
		want  DisplayCategory
	}{
		{0, DisplayDanger},
		{20, DisplayDanger},
		{21, DisplayWarning},
		{50, DisplayWarning},
		{51, DisplaySuccess},
	}
	for _, tc := range cases {
		p := base
		p.StockQuantity = tc.stock
		assert.Equal(t, tc.want, DisplayCategoryOf(p, s), "stock %d", tc.stock)
	}
}
