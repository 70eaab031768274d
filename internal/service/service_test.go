package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/testdb"
	"innoventory-ws/internal/ws"
)

var tester = ws.Actor{ID: "user-1", Name: "Tester", Email: "tester@example.com"}

func intPtr(v int) *int { return &v }

type fixture struct {
	db        *gorm.DB
	hub       *ws.Hub
	products  repository.ProductRepository
	txs       repository.TransactionRepository
	cats      repository.CategoryRepository
	sups      repository.SupplierRepository
	settings  SettingsService
	inventory InventoryService
	ledger    LedgerService
	refs      ReferenceService
	category  *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{
		db:       db,
		hub:      ws.NewHub(),
		products: repository.NewProductRepo(db),
		txs:      repository.NewTransactionRepo(db),
		cats:     repository.NewCategoryRepo(db),
		sups:     repository.NewSupplierRepo(db),
	}
	f.settings = NewSettingsService(repository.NewSettingsRepo(db), nil, f.hub)
	f.inventory = NewInventoryService(f.products, f.cats, f.sups, f.settings, db, f.hub)
	f.ledger = NewLedgerService(f.products, f.txs, db, f.hub)
	f.refs = NewReferenceService(f.cats, f.sups, f.products, db)

	f.category = &model.Category{Name: "General"}
	require.NoError(t, f.cats.Create(context.Background(), f.category))
	return f
}

func (f *fixture) product(t *testing.T, name string, stockQty int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:          name,
		CategoryID:    f.category.ID,
		Price:         decimal.RequireFromString("3.00"),
		StockQuantity: stockQty,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) reload(t *testing.T, p *model.Product) *model.Product {
	t.Helper()
	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got
}
