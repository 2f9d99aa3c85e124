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

// tierOrder is the storage order of price tiers; the selector takes the
// first match in this order.
const tierOrder = "sequence ASC, quantity DESC"

// GormSupplierPriceRepository implements purchasing.SupplierPriceRepository using GORM
type GormSupplierPriceRepository struct {
	db *gorm.DB
}

// NewGormSupplierPriceRepository creates a new GormSupplierPriceRepository
func NewGormSupplierPriceRepository(db *gorm.DB) *GormSupplierPriceRepository {
	return &GormSupplierPriceRepository{db: db}
}

// Create inserts a supplier price
func (r *GormSupplierPriceRepository) Create(ctx context.Context, price *purchasing.SupplierPrice) error {
	return r.db.WithContext(ctx).Create(models.SupplierPriceModelFromDomain(price)).Error
}

// CreateBatch inserts all prices in one transaction
func (r *GormSupplierPriceRepository) CreateBatch(ctx context.Context, prices []purchasing.SupplierPrice) error {
	if len(prices) == 0 {
		return nil
	}
	rows := make([]*models.SupplierPriceModel, len(prices))
	for i := range prices {
		rows[i] = models.SupplierPriceModelFromDomain(&prices[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 100).Error
	})
}

// Update writes every stored column of price, including unset ones
func (r *GormSupplierPriceRepository) Update(ctx context.Context, price *purchasing.SupplierPrice) error {
	model := models.SupplierPriceModelFromDomain(price)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a supplier price by its ID
func (r *GormSupplierPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.SupplierPrice, error) {
	var model models.SupplierPriceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByProductSupplier returns the tiers of a product supplier in storage order
func (r *GormSupplierPriceRepository) ListByProductSupplier(ctx context.Context, productSupplierID uuid.UUID) ([]purchasing.SupplierPrice, error) {
	var rows []models.SupplierPriceModel
	if err := r.db.WithContext(ctx).
		Where("product_supplier_id = ?", productSupplierID).
		Order(tierOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	prices := make([]purchasing.SupplierPrice, len(rows))
	for i := range rows {
		prices[i] = *rows[i].ToDomain()
	}
	return prices, nil
}

// Ensure GormSupplierPriceRepository implements the domain interface
var _ purchasing.SupplierPriceRepository = (*GormSupplierPriceRepository)(nil)
