package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/stock"
	"innoventory-ws/internal/ws"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, req *model.Product, actor ws.Actor) (*stock.ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor ws.Actor) (*stock.ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor ws.Actor) error
	GetAllProducts(ctx context.Context) ([]stock.ProductView, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*stock.ProductView, error)
	GetLowStockProducts(ctx context.Context) ([]stock.ProductView, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	settings     SettingsService
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	cRepo repository.CategoryRepository,
	sRepo repository.SupplierRepository,
	settings SettingsService,
	db *gorm.DB,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		supplierRepo: sRepo,
		settings:     settings,
		db:           db,
		wsHub:        hub,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product, actor ws.Actor) (*stock.ProductView, error) {
	req.ID = uuid.Nil
	req.MaxStockRecorded = 0
	if err := stock.ValidateProduct(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.productRepo.Create(ctx, req); err != nil {
		return nil, errors.Wrap(err, "create product")
	}

	log.Info().Str("product_id", req.ID.String()).Str("actor", actor.ID).Msg("product created")
	s.publishProduct("product_created", req, actor, fmt.Sprintf("%s created product '%s'", actor.Name, req.Name))
	return s.view(ctx, req)
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor ws.Actor) (*stock.ProductView, error) {
	if err := stock.ValidateProduct(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	var updated model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return err
		}

		existing.Name = req.Name
		existing.CategoryID = req.CategoryID
		existing.SupplierID = req.SupplierID
		existing.Price = req.Price
		existing.StockQuantity = req.StockQuantity
		existing.IsTracked = req.IsTracked
		existing.LowThreshold = req.LowThreshold
		existing.MediumThreshold = req.MediumThreshold
		existing.UpdatedBy = actor.ID
		existing.RecordHighWater()

		if err := s.productRepo.Update(tx, existing); err != nil {
			return errors.Wrap(err, "update product")
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("product_id", id.String()).Str("actor", actor.ID).Msg("product updated")
	s.publishProduct("product_updated", &updated, actor, fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name))
	return s.view(ctx, &updated)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	if err := s.productRepo.Delete(ctx, id, actor.ID); err != nil {
		return err
	}
	log.Info().Str("product_id", id.String()).Str("actor", actor.ID).Msg("product deleted")
	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": id},
		User:    actor,
		Message: fmt.Sprintf("%s deleted a product", actor.Name),
	})
	return nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]stock.ProductView, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return views(products, settings), nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*stock.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *inventoryService) GetLowStockProducts(ctx context.Context) ([]stock.ProductView, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindLowStock(ctx, settings)
	if err != nil {
		return nil, err
	}
	return views(products, settings), nil
}

func (s *inventoryService) checkReferences(ctx context.Context, p *model.Product) error {
	if _, err := s.categoryRepo.FindByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return &stock.ValidationError{Field: "category_id", Message: "category does not exist"}
		}
		return err
	}
	if p.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *p.SupplierID); err != nil {
			if errors.Is(err, repository.ErrSupplierNotFound) {
				return &stock.ValidationError{Field: "supplier_id", Message: "supplier does not exist"}
			}
			return err
		}
	}
	return nil
}

func (s *inventoryService) view(ctx context.Context, p *model.Product) (*stock.ProductView, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	v := stock.NewProductView(*p, settings)
	return &v, nil
}

func views(products []model.Product, settings *model.InventorySettings) []stock.ProductView {
	out := make([]stock.ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, stock.NewProductView(p, settings))
	}
	return out
}

func (s *inventoryService) publishProduct(action string, p *model.Product, actor ws.Actor, message string) {
	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: action,
		Data: map[string]interface{}{
			"id":                 p.ID,
			"name":               p.Name,
			"stock_quantity":     p.StockQuantity,
			"max_stock_recorded": p.MaxStockRecorded,
			"price":              p.Price,
		},
		User:    actor,
		Message: message,
	})
}
