package service

import (
	"context"
	"fmt"
	"strings"

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

var (
	ErrCategoryInUse  = errors.New("category still has products")
	ErrCategoryExists = errors.New("category name already exists")
)

// ReferenceService manages categories and suppliers.
type ReferenceService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req *model.Category, actor ws.Actor) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, req *model.Supplier, actor ws.Actor) error
	DeleteSupplier(ctx context.Context, id uuid.UUID, actor ws.Actor) error
}

type referenceService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewReferenceService(cRepo repository.CategoryRepository, sRepo repository.SupplierRepository, pRepo repository.ProductRepository, db *gorm.DB) ReferenceService {
	return &referenceService{categoryRepo: cRepo, supplierRepo: sRepo, productRepo: pRepo, db: db}
}

func validationError(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		first := errs[0]
		return &stock.ValidationError{Field: first.FailedField, Message: fmt.Sprintf("failed on '%s'", first.Tag)}
	}
	return nil
}

func (s *referenceService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *referenceService) CreateCategory(ctx context.Context, req *model.Category, actor ws.Actor) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil {
		return ErrCategoryExists
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return err
	}

	req.ID = uuid.Nil
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return errors.Wrap(s.categoryRepo.Create(ctx, req), "create category")
}

// DeleteCategory refuses while any live product still references the
// category. Deleted products of the category are purged with it.
func (s *referenceService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.productRepo.CountByCategory(tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.Wrapf(ErrCategoryInUse, "%d products", count)
		}
		if err := s.productRepo.PurgeDeletedByCategory(tx, id); err != nil {
			return errors.Wrap(err, "purge deleted products")
		}
		return s.categoryRepo.Delete(tx, id)
	})
}

func (s *referenceService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

func (s *referenceService) CreateSupplier(ctx context.Context, req *model.Supplier, actor ws.Actor) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return err
	}
	req.ID = uuid.Nil
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return errors.Wrap(s.supplierRepo.Create(ctx, req), "create supplier")
}

// DeleteSupplier detaches the supplier from its products, then removes it.
func (s *referenceService) DeleteSupplier(ctx context.Context, id uuid.UUID, actor ws.Actor) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.DetachSupplier(tx, id, actor.ID); err != nil {
			return err
		}
		return s.supplierRepo.Delete(tx, id, actor.ID)
	})
	if err == nil {
		log.Info().Str("supplier_id", id.String()).Str("actor", actor.ID).Msg("supplier deleted")
	}
	return err
}
