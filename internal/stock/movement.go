package stock

import "innoventory-ws/internal/model"

// ValidateMovement checks the direction and quantity of a stock movement.
func ValidateMovement(direction model.TransactionType, quantity int) error {
	if direction != model.TxIn && direction != model.TxOut {
		return invalid("type", "must be IN or OUT, got %q", direction)
	}
	if quantity < 1 {
		return invalid("quantity", "must be at least 1, got %d", quantity)
	}
	return nil
}

// ApplyMovement adjusts p.StockQuantity by a movement and raises the
// high-water mark. An OUT larger than the available stock leaves p untouched.
func ApplyMovement(p *model.Product, direction model.TransactionType, quantity int) error {
	if err := ValidateMovement(direction, quantity); err != nil {
		return err
	}

	switch direction {
	case model.TxIn:
		p.StockQuantity += quantity
	case model.TxOut:
		if p.StockQuantity < quantity {
			return &InsufficientStockError{Product: p.Name, Available: p.StockQuantity, Requested: quantity}
		}
		p.StockQuantity -= quantity
	}
	p.RecordHighWater()
	return nil
}

// RevertMovement undoes a recorded movement by applying its inverse.
// MaxStockRecorded is never lowered by a reversal.
func RevertMovement(p *model.Product, direction model.TransactionType, quantity int) error {
	if err := ValidateMovement(direction, quantity); err != nil {
		return err
	}
	return ApplyMovement(p, direction.Inverse(), quantity)
}
