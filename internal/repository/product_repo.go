package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"innoventory-ws/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindLowStock(ctx context.Context, settings *model.InventorySettings) ([]model.Product, error)
	CountLowStock(ctx context.Context, settings *model.InventorySettings) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error

	// Transaction-scoped helpers; tx must come from db.Transaction.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	UpdateStock(tx *gorm.DB, product *model.Product, updatedBy string) error
	CountByCategory(tx *gorm.DB, categoryID uuid.UUID) (int64, error)
	PurgeDeletedByCategory(tx *gorm.DB, categoryID uuid.UUID) error
	DetachSupplier(tx *gorm.DB, supplierID uuid.UUID, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Supplier", "Transactions").Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context, settings *model.InventorySettings) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Scopes(lowStockScope(settings)).
		Preload("Category").Preload("Supplier").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountLowStock(ctx context.Context, settings *model.InventorySettings) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(lowStockScope(settings)).Count(&count).Error
	return count, err
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Omit("Category", "Supplier", "Transactions", "CreatedAt", "CreatedBy").Save(product).Error
}

// Delete soft-deletes the product together with its stock history.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.StockTransaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := forUpdate(tx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock writes the stock columns only, so a concurrent edit of other
// product fields is not clobbered.
func (r *productRepo) UpdateStock(tx *gorm.DB, product *model.Product, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"stock_quantity":     product.StockQuantity,
			"max_stock_recorded": product.MaxStockRecorded,
			"updated_by":         updatedBy,
		}).Error
}

func (r *productRepo) CountByCategory(tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// PurgeDeletedByCategory hard-deletes the soft-deleted products of a
// category and their history, which would otherwise block deleting the
// category through its foreign key.
func (r *productRepo) PurgeDeletedByCategory(tx *gorm.DB, categoryID uuid.UUID) error {
	var ids []uuid.UUID
	err := tx.Unscoped().Model(&model.Product{}).
		Where("category_id = ? AND deleted_at IS NOT NULL", categoryID).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return err
	}
	if err := tx.Unscoped().Where("product_id IN ?", ids).Delete(&model.StockTransaction{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", ids).Delete(&model.Product{}).Error
}

func (r *productRepo) DetachSupplier(tx *gorm.DB, supplierID uuid.UUID, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("supplier_id = ?", supplierID).
		Updates(map[string]interface{}{
			"supplier_id": nil,
			"updated_by":  updatedBy,
		}).Error
}
