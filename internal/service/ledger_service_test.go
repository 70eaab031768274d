package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/stock"
)

func TestRecordInIncreasesStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cable ties", 5)

	rec, err := f.ledger.Record(context.Background(), RecordTransactionRequest{
		ProductID: p.ID, Type: model.TxIn, Quantity: 10, Date: "2026-05-01", Remarks: " restock ",
	}, tester)
	require.NoError(t, err)

	assert.Equal(t, "restock", rec.Remarks)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), rec.Date)
	got := f.reload(t, p)
	assert.Equal(t, 15, got.StockQuantity)
	assert.Equal(t, 15, got.MaxStockRecorded)
	assert.Equal(t, tester.ID, got.UpdatedBy)
	assert.Len(t, f.hub.Broadcast, 1)
}

func TestRecordDefaultsDateToToday(t *testing.T) {
	f := newFixture(t)
	f.ledger.(*ledgerService).now = func() time.Time { return time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC) }
	p := f.product(t, "Fuses", 5)

	rec, err := f.ledger.Record(context.Background(), RecordTransactionRequest{ProductID: p.ID, Type: "in", Quantity: 1}, tester)
	require.NoError(t, err)

	assert.Equal(t, model.TxIn, rec.Type)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestRecordOutInsufficientLeavesStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Relays", 3)

	_, err := f.ledger.Record(context.Background(), RecordTransactionRequest{ProductID: p.ID, Type: model.TxOut, Quantity: 4}, tester)

	assert.True(t, errors.Is(err, stock.ErrInsufficientStock))
	assert.Equal(t, 3, f.reload(t, p).StockQuantity)
	all, err := f.ledger.GetAllTransactions(context.Background(), repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordOutKeepsHighWater(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gaskets", 30)

	_, err := f.ledger.Record(context.Background(), RecordTransactionRequest{ProductID: p.ID, Type: model.TxOut, Quantity: 25}, tester)
	require.NoError(t, err)

	got := f.reload(t, p)
	assert.Equal(t, 5, got.StockQuantity)
	assert.Equal(t, 30, got.MaxStockRecorded)
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Springs", 3)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   RecordTransactionRequest
		field string
	}{
		{"zero quantity", RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: 0}, "quantity"},
		{"negative quantity", RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: -2}, "quantity"},
		{"bad type", RecordTransactionRequest{ProductID: p.ID, Type: "MOVE", Quantity: 1}, "type"},
		{"no product", RecordTransactionRequest{Type: model.TxIn, Quantity: 1}, "product_id"},
		{"bad date", RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: 1, Date: "18/10/2026"}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.Record(ctx, tc.req, tester)
			var verr *stock.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Equal(t, 3, f.reload(t, p).StockQuantity)
}

func TestRecordUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Record(context.Background(), RecordTransactionRequest{ProductID: uuid.New(), Type: model.TxIn, Quantity: 1}, tester)
	assert.True(t, errors.Is(err, repository.ErrProductNotFound))
}

type failingTxRepo struct {
	repository.TransactionRepository
}

func (failingTxRepo) Create(*gorm.DB, *model.StockTransaction) error {
	return errors.New("disk full")
}

func TestRecordRollsBackStockWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Bearings", 8)
	ledger := NewLedgerService(f.products, failingTxRepo{f.txs}, f.db, nil)

	_, err := ledger.Record(context.Background(), RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: 50}, tester)
	require.Error(t, err)

	got := f.reload(t, p)
	assert.Equal(t, 8, got.StockQuantity)
	assert.Equal(t, 8, got.MaxStockRecorded)
}

func TestReverseRestoresStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Hinges", 7)
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: 10}, tester)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Reverse(ctx, rec.ID, tester))

	got := f.reload(t, p)
	assert.Equal(t, 7, got.StockQuantity)
	assert.Equal(t, 17, got.MaxStockRecorded, "reversal never lowers the high-water mark")

	_, err = f.ledger.GetTransactionByID(ctx, rec.ID)
	assert.True(t, errors.Is(err, repository.ErrTransactionNotFound))
	assert.True(t, errors.Is(f.ledger.Reverse(ctx, rec.ID, tester), repository.ErrTransactionNotFound))
}

func TestReverseOutAddsBack(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Latches", 9)
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, RecordTransactionRequest{ProductID: p.ID, Type: model.TxOut, Quantity: 4}, tester)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Reverse(ctx, rec.ID, tester))

	assert.Equal(t, 9, f.reload(t, p).StockQuantity)
}

func TestReverseInAfterConsumptionFails(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Clamps", 0)
	ctx := context.Background()

	in, err := f.ledger.Record(ctx, RecordTransactionRequest{ProductID: p.ID, Type: model.TxIn, Quantity: 5}, tester)
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, RecordTransactionRequest{ProductID: p.ID, Type: model.TxOut, Quantity: 4}, tester)
	require.NoError(t, err)

	err = f.ledger.Reverse(ctx, in.ID, tester)
	assert.True(t, errors.Is(err, stock.ErrInsufficientStock))

	assert.Equal(t, 1, f.reload(t, p).StockQuantity)
	_, err = f.ledger.GetTransactionByID(ctx, in.ID)
	assert.NoError(t, err, "failed reversal keeps the transaction")
}

func TestConcurrentOutNeverOversells(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Rivets", 5)
	ctx := context.Background()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Record(ctx, RecordTransactionRequest{ProductID: p.ID, Type: model.TxOut, Quantity: 1}, tester)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, stock.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 0, f.reload(t, p).StockQuantity)
}
