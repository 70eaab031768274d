package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
)

var ErrTransactionNotFound = errors.New("stock transaction not found")

// TransactionFilter narrows FindAll. Zero values mean "any".
type TransactionFilter struct {
	ProductID *uuid.UUID
	Type      model.TransactionType
	From      *time.Time
	To        *time.Time
}

type TransactionRepository interface {
	FindAll(ctx context.Context, filter TransactionFilter) ([]model.StockTransaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransaction, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context, settings *model.InventorySettings) (*DashboardStats, error)

	// Transaction-scoped helpers; tx must come from db.Transaction.
	Create(tx *gorm.DB, transaction *model.StockTransaction) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.StockTransaction, error)
	Delete(tx *gorm.DB, transaction *model.StockTransaction, deletedBy string) error
}

// StockMovementData is one day of inbound/outbound totals for charts.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll(ctx context.Context, filter TransactionFilter) ([]model.StockTransaction, error) {
	query := r.db.WithContext(ctx).Preload("Product")
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}

	var transactions []model.StockTransaction
	err := query.Order("transaction_date DESC").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransaction, error) {
	var transaction model.StockTransaction
	err := r.db.WithContext(ctx).Preload("Product").First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.StockTransaction) error {
	return tx.Omit("Product").Create(transaction).Error
}

func (r *transactionRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.StockTransaction, error) {
	var transaction model.StockTransaction
	err := forUpdate(tx).First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Delete(tx *gorm.DB, transaction *model.StockTransaction, deletedBy string) error {
	if err := tx.Model(transaction).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(transaction).Error
}

func (r *transactionRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Select(`
			transaction_date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) AS outbound
		`).
		Where("transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("transaction_date").
		Order("transaction_date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]StockMovementData, 0)
	for rows.Next() {
		var (
			day  time.Time
			data StockMovementData
		)
		if err := rows.Scan(&day, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		data.Date = day.Format("2006-01-02")
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context, settings *model.InventorySettings) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Scopes(lowStockScope(settings)).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock_quantity * price), 0)").
		Row().Scan(&stats.TotalValuation)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
