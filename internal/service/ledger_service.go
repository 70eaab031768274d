package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/stock"
	"innoventory-ws/internal/ws"
	"innoventory-ws/pkg/validator"
)

const dateLayout = "2006-01-02"

// LedgerService is the only writer of stock movements. Every call changes
// the product stock and the transaction row inside one DB transaction with
// the product row locked.
type LedgerService interface {
	Record(ctx context.Context, req RecordTransactionRequest, actor ws.Actor) (*model.StockTransaction, error)
	Reverse(ctx context.Context, id uuid.UUID, actor ws.Actor) error
	GetAllTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.StockTransaction, error)
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.StockTransaction, error)
}

type RecordTransactionRequest struct {
	ProductID uuid.UUID             `json:"product_id" validate:"uuid_required"`
	Type      model.TransactionType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int                   `json:"quantity" validate:"required,gt=0"`
	Date      string                `json:"date"` // YYYY-MM-DD, today when empty
	Remarks   string                `json:"remarks"`
}

type ledgerService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
	now             func() time.Time
}

func NewLedgerService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
		now:             time.Now,
	}
}

func (s *ledgerService) Record(ctx context.Context, req RecordTransactionRequest, actor ws.Actor) (*model.StockTransaction, error) {
	req.Type = model.TransactionType(strings.ToUpper(string(req.Type)))
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		first := errs[0]
		return nil, &stock.ValidationError{Field: first.FailedField, Message: fmt.Sprintf("failed on '%s'", first.Tag)}
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var (
		record  *model.StockTransaction
		product *model.Product
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return err
		}
		if err := stock.ApplyMovement(p, req.Type, req.Quantity); err != nil {
			return err
		}
		if err := s.productRepo.UpdateStock(tx, p, actor.ID); err != nil {
			return errors.Wrap(err, "update product stock")
		}

		record = &model.StockTransaction{
			ProductID: p.ID,
			Type:      req.Type,
			Quantity:  req.Quantity,
			Date:      date,
			Remarks:   strings.TrimSpace(req.Remarks),
		}
		record.CreatedBy = actor.ID
		record.UpdatedBy = actor.ID
		if err := s.transactionRepo.Create(tx, record); err != nil {
			return errors.Wrap(err, "create stock transaction")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	record.Product = product

	log.Info().
		Str("transaction_id", record.ID.String()).
		Str("product_id", product.ID.String()).
		Str("type", string(record.Type)).
		Int("quantity", record.Quantity).
		Int("new_stock", product.StockQuantity).
		Msg("stock transaction recorded")

	verb := "added"
	if record.Type == model.TxOut {
		verb = "removed"
	}
	s.publish("transaction_recorded", record, product, actor,
		fmt.Sprintf("%s %s %d units of '%s' (%s)", actor.Name, verb, record.Quantity, product.Name, record.Type))
	return record, nil
}

func (s *ledgerService) Reverse(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	var (
		record  *model.StockTransaction
		product *model.Product
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.transactionRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		p, err := s.productRepo.LockByID(tx, t.ProductID)
		if err != nil {
			return err
		}
		if err := stock.RevertMovement(p, t.Type, t.Quantity); err != nil {
			return err
		}
		if err := s.productRepo.UpdateStock(tx, p, actor.ID); err != nil {
			return errors.Wrap(err, "update product stock")
		}
		if err := s.transactionRepo.Delete(tx, t, actor.ID); err != nil {
			return errors.Wrap(err, "delete stock transaction")
		}
		record, product = t, p
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("product_id", product.ID.String()).
		Int("new_stock", product.StockQuantity).
		Msg("stock transaction reversed")

	s.publish("transaction_reversed", record, product, actor,
		fmt.Sprintf("%s reversed %s of %d units of '%s'", actor.Name, record.Type, record.Quantity, product.Name))
	return nil
}

func (s *ledgerService) GetAllTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.StockTransaction, error) {
	return s.transactionRepo.FindAll(ctx, filter)
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.StockTransaction, error) {
	return s.transactionRepo.FindByID(ctx, id)
}

func (s *ledgerService) parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &stock.ValidationError{Field: "date", Message: "use YYYY-MM-DD"}
	}
	return date, nil
}

func (s *ledgerService) publish(action string, record *model.StockTransaction, product *model.Product, actor ws.Actor, message string) {
	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: action,
		Data: map[string]interface{}{
			"transaction_id":     record.ID,
			"type":               record.Type,
			"quantity":           record.Quantity,
			"product_id":         product.ID,
			"product_name":       product.Name,
			"new_stock":          product.StockQuantity,
			"max_stock_recorded": product.MaxStockRecorded,
		},
		User:    actor,
		Message: message,
	})
}
