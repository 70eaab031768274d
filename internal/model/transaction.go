package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Inverse returns the direction that undoes t.
func (t TransactionType) Inverse() TransactionType {
	if t == TxIn {
		return TxOut
	}
	return TxIn
}

// StockTransaction is one stock movement. Rows are created and reversed by
// the ledger only; there is no update path.
type StockTransaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Type      TransactionType `gorm:"type:varchar(3);not null" json:"type"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Date      time.Time       `gorm:"column:transaction_date;type:date;not null;index" json:"date"`
	Remarks   string          `gorm:"type:text" json:"remarks"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}
