package stock

import (
	"github.com/shopspring/decimal"

	"innoventory-ws/internal/model"
	"innoventory-ws/pkg/validator"
)

// MinPrice is the lowest accepted product price.
var MinPrice = decimal.RequireFromString("1.00")

// ValidateProduct runs the field rules and the cross-field threshold rule.
func ValidateProduct(p *model.Product) error {
	if errs := validator.ValidateStruct(p); len(errs) > 0 {
		first := errs[0]
		return invalid(first.FailedField, "failed on '%s'", first.Tag)
	}
	if p.Price.LessThan(MinPrice) {
		return invalid("price", "must be at least %s", MinPrice.StringFixed(2))
	}
	if p.LowThreshold != nil && p.MediumThreshold != nil && *p.MediumThreshold <= *p.LowThreshold {
		return invalid("medium_threshold", "medium threshold must be greater than low threshold")
	}
	return nil
}

// ValidateSettings checks that both percentages lie in 1..100.
func ValidateSettings(s *model.InventorySettings) error {
	if errs := validator.ValidateStruct(s); len(errs) > 0 {
		first := errs[0]
		return invalid(first.FailedField, "failed on '%s'", first.Tag)
	}
	return nil
}
