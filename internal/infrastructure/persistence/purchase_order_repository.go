package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its lines in creation order
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order := model.ToDomain()
	if !order.Status.IsValid() {
		return nil, fmt.Errorf("purchase order %s: unknown status %q", id, order.Status)
	}
	return order, nil
}

// Save creates or updates a purchase order and replaces its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PurchaseOrderModelFromDomain(order)

		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		// Delete lines no longer on the order
		lineIDs := make([]uuid.UUID, len(order.Lines))
		for i := range order.Lines {
			lineIDs[i] = order.Lines[i].ID
		}
		del := tx.Where("order_id = ?", order.ID)
		if len(lineIDs) > 0 {
			del = del.Where("id NOT IN ?", lineIDs)
		}
		if err := del.Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}

		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			if err := tx.Save(models.PurchaseOrderLineModelFromDomain(&order.Lines[i])).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByOrderNumber checks if an order number is already used
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
