package persistence

import (
	"context"
	"errors"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func orderedTiers(db *gorm.DB) *gorm.DB {
	return db.Order(tierOrder)
}

// GormProductRepository implements purchasing.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts the product row; suppliers are created separately
func (r *GormProductRepository) Create(ctx context.Context, product *purchasing.Product) error {
	model := &models.ProductModel{}
	model.FromDomain(product)
	if err := r.db.WithContext(ctx).Omit("Suppliers").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID loads a product with its suppliers and their tiers in storage order
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Suppliers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Suppliers.Prices", orderedTiers).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormProductSupplierRepository implements purchasing.ProductSupplierRepository using GORM
type GormProductSupplierRepository struct {
	db *gorm.DB
}

// NewGormProductSupplierRepository creates a new GormProductSupplierRepository
func NewGormProductSupplierRepository(db *gorm.DB) *GormProductSupplierRepository {
	return &GormProductSupplierRepository{db: db}
}

// Create inserts the product supplier row; tiers are created separately
func (r *GormProductSupplierRepository) Create(ctx context.Context, ps *purchasing.ProductSupplier) error {
	model := &models.ProductSupplierModel{}
	model.FromDomain(ps)
	return r.db.WithContext(ctx).Omit("Prices").Create(model).Error
}

// FindByID loads a product supplier with its tiers in storage order
func (r *GormProductSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.ProductSupplier, error) {
	var model models.ProductSupplierModel
	if err := r.db.WithContext(ctx).
		Preload("Prices", orderedTiers).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var (
	_ purchasing.ProductRepository         = (*GormProductRepository)(nil)
	_ purchasing.ProductSupplierRepository = (*GormProductSupplierRepository)(nil)
)
